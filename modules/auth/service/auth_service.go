package service

import (
	"context"

	"github.com/t0pa/plansync/core/cache"
	"github.com/t0pa/plansync/core/constants"
	"github.com/t0pa/plansync/core/errors"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/core/utils"
	"github.com/t0pa/plansync/modules/auth/dto"
	"github.com/t0pa/plansync/modules/auth/entity"
	"github.com/t0pa/plansync/modules/auth/repository"

	"github.com/google/uuid"
)

// AuthService handles identity business logic
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenPairResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, *errors.AppError)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, *errors.AppError)
	ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, *errors.AppError)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) *errors.AppError
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	ValidateAccessToken(ctx context.Context, token string) (*utils.TokenClaims, *errors.AppError)
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) AuthServiceInterface {
	return &AuthService{
		repo:  repo,
		cache: cache,
	}
}

// Register creates a new user and returns a token pair.
func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenPairResponse, *errors.AppError) {
	existing, err := service.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already exists", nil)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    hashedPassword,
	}

	created, err := service.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	return service.issueTokenPair(created)
}

// Login verifies credentials and returns a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, *errors.AppError) {
	user, err := service.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !utils.ComparePassword(user.Password, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	return service.issueTokenPair(user)
}

// RefreshToken exchanges a valid refresh token for a new pair and revokes
// the old one.
func (service *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, *errors.AppError) {
	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshToken:IsTokenBlacklisted", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is not a refresh token", nil)
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user no longer exists", nil)
	}

	if errAdd := service.cache.AddToTokenBlacklist(ctx, refreshToken); errAdd != nil {
		logger.Error("AuthService:RefreshToken:AddToTokenBlacklist", errAdd)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", errAdd)
	}

	return service.issueTokenPair(user)
}

// ForgotPassword issues a one-shot reset token held in the cache with a TTL.
func (service *AuthService) ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, *errors.AppError) {
	user, err := service.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	resetToken := utils.GenerateRandomString(32)
	if errSet := service.cache.SetResetToken(ctx, resetToken, user.ID.String()); errSet != nil {
		logger.Error("AuthService:ForgotPassword:SetResetToken", errSet)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save reset token", errSet)
	}

	return &dto.ForgotPasswordResponse{ResetToken: resetToken}, nil
}

// ResetPassword consumes a reset token and installs a new password.
func (service *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) *errors.AppError {
	userIDStr, err := service.cache.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if cache.IsMiss(err) {
			return errors.NewAppError(errors.ErrUnauthorized, "invalid or expired reset token", nil)
		}
		logger.Error("AuthService:ResetPassword:ConsumeResetToken", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to check reset token", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "corrupt reset token entry", err)
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	if errUpdate := service.repo.UpdatePassword(ctx, userID, hashedPassword); errUpdate != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to update password", errUpdate)
	}

	return nil
}

// GetMe returns the authenticated user's profile.
func (service *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return &dto.UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// ValidateAccessToken is the middleware entry point: signature, expiry,
// scope and revocation are all checked here, nowhere else.
func (service *AuthService) ValidateAccessToken(ctx context.Context, token string) (*utils.TokenClaims, *errors.AppError) {
	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		logger.Error("AuthService:ValidateAccessToken:IsTokenBlacklisted", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		if err == utils.ErrTokenExpired {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}
	if claims.Scope != constants.ScopeTokenAccess {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is not an access token", nil)
	}

	return claims, nil
}

func (service *AuthService) issueTokenPair(user *entity.User) (*dto.TokenPairResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Email, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueTokenPair:Access", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(user.ID, user.Email, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("AuthService:IssueTokenPair:Refresh", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
