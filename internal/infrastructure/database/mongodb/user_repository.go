package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-auth-service/internal/domain/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// userDocument is the stored shape of a user. Field names follow the
// existing users collection, so records written by earlier deployments decode
// unchanged. Nil optional fields are omitted.
type userDocument struct {
	UserID         string     `bson:"userId"`
	Email          string     `bson:"email"`
	Mobile         string     `bson:"mobile"`
	PasswordHashed string     `bson:"password"`
	RefreshToken   *string    `bson:"refreshToken,omitempty"`
	OTP            *string    `bson:"otp,omitempty"`
	OTPExpiry      *time.Time `bson:"otpExpiry,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt"`
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if _, err := r.db.users().InsertOne(ctx, toDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: fieldEmail, Value: email}})
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: fieldUserID, Value: userID}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDocument
	err := r.db.users().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toEntity(&doc), nil
}

// Update sets the mutable fields and unsets the optional ones that are nil.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result, err := r.db.users().UpdateOne(ctx, bson.D{{Key: fieldUserID, Value: u.UserID}}, updateDocument(u))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func updateDocument(u *user.User) bson.D {
	set := bson.D{
		{Key: "mobile", Value: u.Mobile},
		{Key: "password", Value: u.PasswordHashed},
		{Key: "updatedAt", Value: u.UpdatedAt},
	}
	unset := bson.D{}

	optional := []struct {
		key   string
		isNil bool
		value interface{}
	}{
		{"refreshToken", u.RefreshToken == nil, u.RefreshToken},
		{"otp", u.OTP == nil, u.OTP},
		{"otpExpiry", u.OTPExpiry == nil, u.OTPExpiry},
	}
	for _, f := range optional {
		if f.isNil {
			unset = append(unset, bson.E{Key: f.key, Value: ""})
			continue
		}
		set = append(set, bson.E{Key: f.key, Value: f.value})
	}

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}

func (r *UserRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func (r *UserRepository) Close(ctx context.Context) error {
	return r.db.Close(ctx)
}

func toDocument(u *user.User) *userDocument {
	return &userDocument{
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

func toEntity(d *userDocument) *user.User {
	return &user.User{
		UserID:         d.UserID,
		Email:          d.Email,
		Mobile:         d.Mobile,
		PasswordHashed: d.PasswordHashed,
		RefreshToken:   d.RefreshToken,
		OTP:            d.OTP,
		OTPExpiry:      d.OTPExpiry,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
