package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"hackhub/internal/auth"
	apperrors "hackhub/internal/errors"
	"hackhub/internal/mail"
	"hackhub/internal/model"
	"hackhub/internal/repository"
)

const (
	bcryptCost         = 10
	resetTokenValidity = time.Hour
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidVerificationToken is returned for unknown verification tokens.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	// ErrInvalidResetToken is returned for unknown or expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// AuthService handles signup, login, and token lifecycle.
type AuthService interface {
	Signup(ctx context.Context, name, email, password, role string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	mailer     mail.Mailer
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, mailer mail.Mailer) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
	}
}

// Signup creates a new user with a hashed password and sends a verification
// email. The email send is fire-and-forget; the account exists either way.
func (s *authService) Signup(ctx context.Context, name, email, password, role string) (*model.User, error) {
	if role != model.RoleOrganizer {
		role = model.RoleParticipant
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:                   name,
		Email:                  email,
		PasswordHash:           string(hashedPassword),
		Role:                   role,
		IsEmailVerified:        false,
		EmailVerificationToken: uuid.New().String(),
		Skills:                 []string{},
	}

	// Uniqueness of email rides on the store's unique index, so a concurrent
	// signup with the same address cannot slip through.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.Name, user.EmailVerificationToken); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("verification email failed")
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	userID := user.ID.Hex()
	accessToken, err = s.jwtService.GenerateAccessToken(userID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(userID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, userID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// VerifyEmail marks the account behind the token as verified.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		return ErrInvalidVerificationToken
	}
	return s.userRepo.Update(ctx, user.ID, bson.M{
		"isEmailVerified":        true,
		"emailVerificationToken": "",
	})
}

// ForgotPassword issues a reset token and mails it. An unknown address is not
// an error, so the endpoint cannot be used to probe for accounts.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	token := uuid.New().String()
	if err := s.userRepo.Update(ctx, user.ID, bson.M{
		"resetPasswordToken":  token,
		"resetPasswordExpire": time.Now().Add(resetTokenValidity),
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("password reset email failed")
	}
	return nil
}

// ResetPassword replaces the credential behind a valid reset token.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.Update(ctx, user.ID, bson.M{
		"passwordHash":        string(hashedPassword),
		"resetPasswordToken":  "",
		"resetPasswordExpire": time.Time{},
	})
}
