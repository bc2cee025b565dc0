package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sportmeet/core/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[errors.ErrorCode]int{
		errors.ErrInvalidInput:               http.StatusBadRequest,
		errors.ErrConflict:                   http.StatusBadRequest,
		errors.ErrInvalidOperation:           http.StatusBadRequest,
		errors.ErrMissingAuthorizationHeader: http.StatusUnauthorized,
		errors.ErrTokenExpired:               http.StatusUnauthorized,
		errors.ErrForbidden:                  http.StatusForbidden,
		errors.ErrNotFound:                   http.StatusNotFound,
		errors.ErrUpstreamFailed:             http.StatusBadGateway,
		errors.ErrInternalServer:             http.StatusInternalServerError,
		errors.ErrorCode("SOMETHING_NEW"):    http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, HTTPStatus(code), code)
	}
}

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	HTTPErrorHandler(err, c)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestHTTPErrorHandler(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		status, body := render(t, fmt.Errorf("wrapped: %w", errors.NewAppError(errors.ErrConflict, "already registered", nil)))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, errors.ErrConflict, body.Code)
		assert.Equal(t, "already registered", body.Message)
	})

	t.Run("response helper", func(t *testing.T) {
		status, body := render(t, NewBaseController().Forbidden(errors.ErrForbidden, "hosts only"))
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, errors.ErrForbidden, body.Code)
	})

	t.Run("echo not found", func(t *testing.T) {
		status, body := render(t, echo.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, errors.ErrNotFound, body.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		status, body := render(t, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, errors.ErrInternalServer, body.Code)
		assert.Equal(t, "error", body.Status)
	})
}
