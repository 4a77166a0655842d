package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/domain/repositories"
	"events-hub.backend/pkg/crypto"
	"events-hub.backend/pkg/jwt"
	"events-hub.backend/pkg/utils"
)

// AuthUsecase handles signup, verification, and login
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	otpUsecase *OTPUsecase
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, otpUsecase *OTPUsecase, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		otpUsecase: otpUsecase,
		jwtService: jwtService,
	}
}

// Signup registers an unverified user and sends the verification code.
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.User, error) {
	role := entities.UserRole(input.Role)
	if !role.Valid() {
		return nil, domainerrors.BadRequest("role must be Seeker or Facilitator")
	}

	email := entities.NormalizeEmail(input.Email)
	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrEmailExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := u.otpUsecase.IssueAndSend(ctx, email); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail checks the OTP and flips the user's verified flag exactly once.
// The code is checked before the account is touched, so an unknown email gets
// the same invalid-code answer as a wrong code and the endpoint never reveals
// whether an address is registered.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, input *entities.VerifyEmailInput) error {
	email := entities.NormalizeEmail(input.Email)

	if err := u.otpUsecase.Verify(ctx, email, input.OTP); err != nil {
		return err
	}

	flipped, err := u.userRepo.MarkEmailVerified(ctx, email)
	if err != nil {
		return err
	}
	if !flipped {
		// the account was already verified, or a concurrent verify got there
		// first; either way it is verified now
		return domainerrors.ErrAlreadyVerified
	}
	return nil
}

// Login authenticates a user and returns a token pair. The verified check
// runs before the password comparison, so an unverified account with the
// right password still gets the not-verified answer.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	email := entities.NormalizeEmail(input.Email)

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.EmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// ResendOTP issues a fresh code for a known, still-unverified address.
func (u *AuthUsecase) ResendOTP(ctx context.Context, input *entities.ResendOTPInput) error {
	email := entities.NormalizeEmail(input.Email)

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domainerrors.ErrAlreadyVerified
	}

	if err := u.otpUsecase.AllowResend(ctx, email); err != nil {
		return err
	}
	return u.otpUsecase.IssueAndSend(ctx, email)
}

// RefreshToken validates a refresh token and rotates the pair.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	// the user must still exist and stay verified
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.EmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
