package service

import (
	"context"
	"mime/multipart"
	"path/filepath"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/infrastructure/aws/storage"
	"coursehub/cmd/internal/infrastructure/googleauth"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type GoogleVerifier interface {
	Verify(idToken string) (*googleauth.Claims, error)
}

type DefaultUserService struct {
	UserRepo UserRepository
	Storage  storage.ObjectStorage
	Google   GoogleVerifier
	Validate *validator.Validate
}

func NewUserService(userRepo UserRepository, objStorage storage.ObjectStorage, google GoogleVerifier, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{
		UserRepo: userRepo,
		Storage:  objStorage,
		Google:   google,
		Validate: validate,
	}
}

func (s *DefaultUserService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	found, err := s.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.EmailTakenError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Email:     req.Email,
		Password:  string(hash),
		Name:      req.Name,
		Role:      "USER",
		Provider:  entity.ProviderLocal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.toAuthResponse(user)
}

func (s *DefaultUserService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apierror.CredentialsMismatchError
	}
	return s.toAuthResponse(user)
}

// GoogleLogin verifies a Google ID token and upserts the local user
// record, syncing picture and name when they changed upstream.
func (s *DefaultUserService) GoogleLogin(req *contract.GoogleLoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	claims, err := s.Google.Verify(req.Token)
	if err != nil {
		log.Warnf("google token verification failed: %v", err)
		return nil, apierror.InvalidGoogleTokenError
	}

	user, err := s.UserRepo.FindByEmail(claims.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		user, err = s.createGoogleUser(claims)
		if err != nil {
			log.Errorf("failed to create google user: %v", err)
			return nil, apierror.InternalServerError
		}
		return s.toAuthResponse(user)
	}

	dirty := false
	if user.Provider == "" {
		user.Provider = entity.ProviderGoogle
		dirty = true
	}
	if claims.Picture != "" && claims.Picture != user.ProfilePicture {
		user.ProfilePicture = claims.Picture
		dirty = true
	}
	if claims.Name != "" && user.Name == "" {
		user.Name = claims.Name
		dirty = true
	}

	if dirty {
		user.UpdatedAt = utils.NowUTC()
		if err := s.UserRepo.Save(user); err != nil {
			log.Errorf("failed to sync google profile of %s: %v", user.Email, err)
			return nil, apierror.InternalServerError
		}
	}
	return s.toAuthResponse(user)
}

func (s *DefaultUserService) ChangePassword(actor *entity.User, req *contract.ChangePasswordRequest) apierror.ErrorResponse {
	if valerr := s.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(req.CurrentPassword)); err != nil {
		return apierror.WrongCurrentPasswordError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return apierror.InternalServerError
	}

	actor.Password = string(hash)
	actor.UpdatedAt = utils.NowUTC()
	if err := s.UserRepo.Save(actor); err != nil {
		log.Errorf("failed to update password of %s: %v", actor.Email, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultUserService) UpdateProfilePicture(ctx context.Context, actor *entity.User, fileHeader *multipart.FileHeader) (*contract.ProfilePictureResponse, apierror.ErrorResponse) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, apierror.EmptyFileError
	}

	fileType := fileHeader.Header.Get("Content-Type")
	if !utils.IsAllowedMimeType(fileType, []string{"image/jpeg", "image/png"}) {
		return nil, apierror.NewInvalidFileTypeError(fileType)
	}

	data, apierr := readUploadFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	key := "avatars/" + uuid.NewString() + filepath.Ext(fileHeader.Filename)
	if err := s.Storage.Upload(ctx, key, data, fileType); err != nil {
		log.Errorf("failed to upload avatar %s: %v", key, err)
		return nil, apierror.InternalServerError
	}

	actor.ProfilePicture = s.Storage.PublicURL(key)
	actor.UpdatedAt = utils.NowUTC()
	if err := s.UserRepo.Save(actor); err != nil {
		log.Errorf("failed to update profile picture of %s: %v", actor.Email, err)
		return nil, apierror.InternalServerError
	}

	return &contract.ProfilePictureResponse{URL: actor.ProfilePicture}, nil
}

func (s *DefaultUserService) createGoogleUser(claims *googleauth.Claims) (*entity.User, error) {
	// Google users never log in with a password, but the column is not
	// nullable, so store a random hash.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	user := &entity.User{
		Email:          claims.Email,
		Password:       string(hash),
		Name:           claims.Name,
		Role:           "USER",
		Provider:       entity.ProviderGoogle,
		ProfilePicture: claims.Picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DefaultUserService) toAuthResponse(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := utils.GenerateToken(user.Email, user.Role)
	if err != nil {
		log.Errorf("failed to generate token for %s: %v", user.Email, err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		Token:          token,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	}, nil
}
