package postgres

import (
	"context"
	"errors"
	"fmt"

	"user-auth-service/internal/domain/user"
	"user-auth-service/internal/infrastructure/database/postgres/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository on top of gorm.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.DB.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		if isUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *UserRepository) first(ctx context.Context, query string, arg string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where(query, arg).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

// Update writes every mutable column. Nil pointer fields are stored as NULL,
// which is how a consumed OTP is cleared.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("user_id = ?", u.UserID).
		Updates(updateColumns(u))

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func (r *UserRepository) Close(ctx context.Context) error {
	return r.db.Close(ctx)
}

func updateColumns(u *user.User) map[string]interface{} {
	return map[string]interface{}{
		"mobile":          u.Mobile,
		"password_hashed": u.PasswordHashed,
		"refresh_token":   u.RefreshToken,
		"otp":             u.OTP,
		"otp_expiry":      u.OTPExpiry,
		"updated_at":      u.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		UserID:         u.UserID,
		Email:          u.Email,
		Mobile:         u.Mobile,
		PasswordHashed: u.PasswordHashed,
		RefreshToken:   u.RefreshToken,
		OTP:            u.OTP,
		OTPExpiry:      u.OTPExpiry,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		UserID:         m.UserID,
		Email:          m.Email,
		Mobile:         m.Mobile,
		PasswordHashed: m.PasswordHashed,
		RefreshToken:   m.RefreshToken,
		OTP:            m.OTP,
		OTPExpiry:      m.OTPExpiry,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
