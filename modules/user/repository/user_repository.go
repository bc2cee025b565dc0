package repository

import (
	"context"
	"database/sql"
	"time"

	"sportmeet/core/database"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/modules/user/entity"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{DB: db}
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdatePicture(ctx context.Context, id uuid.UUID, url, key string) error
	ClearPicture(ctx context.Context, id uuid.UUID) error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	query := r.DB.Rebind(`
		SELECT id, name, email, role, profile_picture, profile_picture_key, created_at, updated_at
		FROM users
		WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("UserRepository:GetByID:Error", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePicture(ctx context.Context, id uuid.UUID, url, key string) error {
	return r.setPicture(ctx, id, &url, &key)
}

func (r *UserRepository) ClearPicture(ctx context.Context, id uuid.UUID) error {
	return r.setPicture(ctx, id, nil, nil)
}

func (r *UserRepository) setPicture(ctx context.Context, id uuid.UUID, url, key *string) error {
	res, err := r.DB.ExecResultContext(ctx,
		r.DB.Rebind(`UPDATE users SET profile_picture = ?, profile_picture_key = ?, updated_at = ? WHERE id = ?`),
		url, key, time.Now().UTC(), id)
	if err != nil {
		logger.Error("UserRepository:SetPicture:Error", "error", err, "user_id", id)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}
