package user

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"user-auth-service/internal/config"
	domainUser "user-auth-service/internal/domain/user"
	"user-auth-service/internal/logger"
	"user-auth-service/internal/validator"
	appErrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/utils"

	"go.uber.org/zap"
)

const otpSubject = "Password Reset OTP"

//go:generate mockgen -destination=../../mocks/notifier_mock.go -package=mocks user-auth-service/internal/usecase/user Notifier

// Notifier delivers a plaintext email.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service implements the account use cases.
type Service struct {
	userRepo domainUser.Repository
	notifier Notifier
	tokens   *utils.TokenIssuer
	config   *config.Config
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for OTP expiry and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new account service
func NewService(
	userRepo domainUser.Repository,
	notifier Notifier,
	tokens *utils.TokenIssuer,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo: userRepo,
		notifier: notifier,
		tokens:   tokens,
		config:   cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*MessageResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, validator.Message(err), err)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domainUser.User{
		UserID:         utils.GenerateUserID(),
		Email:          req.Email,
		Mobile:         req.Mobile,
		PasswordHashed: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// The store's unique index settles concurrent registrations of one email.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Concurrent registration lost on unique constraint",
				zap.String("email", req.Email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
			return nil, appErrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
		zap.String("event", "user_registered"),
	)

	return &MessageResponse{Message: "User registered successfully"}, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, validator.Message(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrUserNotFound.WithStatus(http.StatusBadRequest)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.UserID),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	tokenPair, err := s.tokens.IssuePair(user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.SetRefreshToken(tokenPair.RefreshToken)
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
		zap.String("event", "login_success"),
	)

	return &LoginResponse{
		UserID:       user.UserID,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}

// ForgotPassword stores a fresh OTP on the account and emails it.
// The code itself is never returned to the caller.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (*MessageResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, validator.Message(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_requested_non_existent_email"),
			)
			return nil, appErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	otp, err := utils.GenerateOTP(s.config.OTP.Length)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.config.OTP.Expiry)
	user.SetOTP(otp, expiresAt)
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	body := fmt.Sprintf("Your OTP is: %s. It is valid for %d minutes.", otp, s.otpMinutes())
	if err := s.notifier.Send(ctx, user.Email, otpSubject, body); err != nil {
		return nil, fmt.Errorf("failed to send OTP email: %w", err)
	}

	logger.Info("Password reset OTP sent",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "otp_sent"),
	)

	return &MessageResponse{Message: "OTP sent to email"}, nil
}

// VerifyOTP exchanges a matching, unexpired OTP for a reset token.
// A mismatch is reported before expiry, so a wrong code is always "invalid"
// and only a correct code can be reported as expired.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*VerifyOTPResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, validator.Message(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user == nil || !user.OTPMatches(req.OTP) {
		logger.Warn("OTP verification failed",
			zap.String("email", req.Email),
			zap.String("event", "otp_invalid"),
		)
		return nil, appErrors.ErrInvalidOTP
	}

	now := s.now()
	if user.OTPExpired(now) {
		logger.Warn("OTP verification with expired code",
			zap.String("user_id", user.UserID),
			zap.String("event", "otp_expired"),
		)
		return nil, appErrors.ErrOTPExpired
	}

	user.ClearOTP()
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to clear OTP: %w", err)
	}

	resetToken, err := s.tokens.IssueResetToken(user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	logger.Info("OTP verified successfully",
		zap.String("user_id", user.UserID),
		zap.String("event", "otp_verified"),
	)

	return &VerifyOTPResponse{ResetToken: resetToken}, nil
}

// ResetPassword sets a new password for userID, which the caller has already
// authenticated with a reset token.
func (s *Service) ResetPassword(ctx context.Context, userID string, req *ResetPasswordRequest) (*MessageResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, validator.Message(err), err)
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	hashedPassword, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHashed = hashedPassword
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.UserID),
		zap.String("event", "password_reset_success"),
	)

	return &MessageResponse{Message: "Password reset successful"}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return "", appErrors.NewAppError(appErrors.CodeValidation, "password is too long", err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func (s *Service) otpMinutes() int {
	return int(math.Ceil(s.config.OTP.Expiry.Minutes()))
}
