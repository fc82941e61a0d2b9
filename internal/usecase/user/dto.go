package user

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email_shape,max=255"`
	Mobile   string `json:"mobile" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

// MessageResponse acknowledges an operation without returning data.
type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type VerifyOTPResponse struct {
	ResetToken string `json:"resetToken"`
}
