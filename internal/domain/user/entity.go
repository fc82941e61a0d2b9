package user

import (
	"crypto/subtle"
	"time"
)

// User is the single persisted account record.
// OTP and OTPExpiry are either both set or both nil.
type User struct {
	UserID         string
	Email          string
	Mobile         string
	PasswordHashed string
	RefreshToken   *string
	OTP            *string
	OTPExpiry      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SetOTP records a pending reset code and its expiry.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTP = &code
	u.OTPExpiry = &expiresAt
}

// ClearOTP drops the pending reset code.
func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpiry = nil
}

// OTPMatches reports whether code equals the pending reset code.
func (u *User) OTPMatches(code string) bool {
	if u.OTP == nil || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.OTP), []byte(code)) == 1
}

// OTPExpired reports whether the pending code is past its expiry at now.
func (u *User) OTPExpired(now time.Time) bool {
	if u.OTPExpiry == nil {
		return true
	}
	return now.After(*u.OTPExpiry)
}

func (u *User) SetRefreshToken(token string) {
	u.RefreshToken = &token
}
