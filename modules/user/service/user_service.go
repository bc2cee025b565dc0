package service

import (
	"context"
	"strings"

	"sportmeet/core/constants"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/storage"
	"sportmeet/core/utils"
	"sportmeet/modules/user/dto"
	"sportmeet/modules/user/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const MaxPictureBytes = constants.MaxProfilePictureSize

var pictureTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError)
	UpdatePicture(ctx context.Context, userID uuid.UUID, upload dto.PictureUpload) (*dto.ProfileResponse, *errors.AppError)
	RemovePicture(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError)
}

type UserService struct {
	repo    repository.UserRepositoryInterface
	storage storage.ObjectStorage
}

// NewUserService builds the profile service. store may be nil, in which case
// picture changes are rejected.
func NewUserService(repo repository.UserRepositoryInterface, store storage.ObjectStorage) *UserService {
	return &UserService{repo: repo, storage: store}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError("UserService:GetProfile", err)
	}
	return dto.ToProfileResponse(user), nil
}

func (s *UserService) UpdatePicture(ctx context.Context, userID uuid.UUID, upload dto.PictureUpload) (*dto.ProfileResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Object storage is not configured", nil)
	}
	if upload.Size <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Profile picture is empty", nil)
	}
	if upload.Size > MaxPictureBytes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Profile picture must be 5MB or smaller", nil)
	}
	ext, ok := pictureExtension(upload)
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Profile picture must be a JPEG, PNG, WebP or GIF image", nil)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError("UserService:UpdatePicture:GetByID", err)
	}

	key := PictureKey(user.Name, ext)
	url, err := s.storage.Upload(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		logger.Error("UserService:UpdatePicture:Upload:Error", err)
		return nil, errors.NewAppError(errors.ErrUpstreamFailed, "Failed to upload profile picture", err)
	}

	if err := s.repo.UpdatePicture(ctx, userID, url, key); err != nil {
		s.deleteObject(ctx, key)
		return nil, mapRepoError("UserService:UpdatePicture:Save", err)
	}
	if user.ProfilePictureKey != nil {
		s.deleteObject(ctx, *user.ProfilePictureKey)
	}

	user.ProfilePicture = &url
	user.ProfilePictureKey = &key
	return dto.ToProfileResponse(user), nil
}

func (s *UserService) RemovePicture(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError("UserService:RemovePicture:GetByID", err)
	}
	if user.ProfilePicture == nil {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "No profile picture to remove", nil)
	}

	if err := s.repo.ClearPicture(ctx, userID); err != nil {
		return nil, mapRepoError("UserService:RemovePicture:Clear", err)
	}
	if user.ProfilePictureKey != nil && s.storage != nil {
		s.deleteObject(ctx, *user.ProfilePictureKey)
	}

	user.ProfilePicture = nil
	user.ProfilePictureKey = nil
	return dto.ToProfileResponse(user), nil
}

// PictureKey builds profile_pictures/<slug(name)>-<id><ext>.
func PictureKey(name, ext string) string {
	base := slug.Make(name)
	if base == "" {
		base = "user"
	}
	return constants.ProfilePictureFolder + "/" + base + "-" + utils.GenerateID() + ext
}

func pictureExtension(upload dto.PictureUpload) (string, bool) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	ext, ok := pictureTypes[contentType]
	return ext, ok
}

// deleteObject is best-effort; failures are only logged.
func (s *UserService) deleteObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.Warn("UserService:DeleteObject:Error", "error", err, "key", key)
	}
}

func mapRepoError(op string, err error) *errors.AppError {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errors.NewAppError(errors.ErrUnauthorized, "User not found", err)
	}
	logger.Error(op+":Error", err)
	return errors.NewAppError(errors.ErrInternalServer, "Internal server error", err)
}
