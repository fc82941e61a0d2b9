// Package mongodb stores user records in a MongoDB collection.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"user-auth-service/internal/config"
	"user-auth-service/internal/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection = "users"
	fieldUserID     = "userId"
	fieldEmail      = "email"
	connectTimeout  = 10 * time.Second
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("error opening mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	db := &DB{client: client, database: client.Database(cfg.Database.MongoDatabase)}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("Database connection established",
		zap.String("driver", config.DriverMongo),
		zap.String("database", cfg.Database.MongoDatabase),
	)

	return db, nil
}

// EnsureIndexes creates the unique indexes that keep email and userId distinct.
// Default index names are used so an existing collection's indexes match.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldEmail, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: fieldUserID, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (d *DB) users() *mongo.Collection {
	return d.database.Collection(usersCollection)
}

func (d *DB) Health(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
