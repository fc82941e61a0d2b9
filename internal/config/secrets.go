package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient is the part of the Secrets Manager API used at startup.
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// managedSecrets is the JSON document stored in the managed secret.
// PORT is accepted both as a string and as a number.
type managedSecrets struct {
	MongoURI         string          `json:"MONGO_URI"`
	Port             json.RawMessage `json:"PORT"`
	JWTAccessSecret  string          `json:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string          `json:"JWT_REFRESH_SECRET"`
	EmailUser        string          `json:"EMAIL_USER"`
	EmailPass        string          `json:"EMAIL_PASS"`
}

func (s *managedSecrets) port() string {
	if len(s.Port) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.Port, &str); err == nil {
		return str
	}
	var num json.Number
	if err := json.Unmarshal(s.Port, &num); err == nil {
		return num.String()
	}
	return ""
}

func loadManagedSecrets(ctx context.Context, cfg AWSConfig) (*managedSecrets, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return fetchSecrets(ctx, secretsmanager.NewFromConfig(awsCfg), cfg.SecretID)
}

func fetchSecrets(ctx context.Context, client SecretsClient, secretID string) (*managedSecrets, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch secret %q: %w", secretID, err)
	}
	if out.SecretString == nil {
		return nil, errors.New("no secret string found in the response")
	}

	var secrets managedSecrets
	if err := json.Unmarshal([]byte(*out.SecretString), &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse secret value as JSON: %w", err)
	}

	return &secrets, nil
}

// applySecrets overlays the non-empty managed values onto c.
func (c *Config) applySecrets(s *managedSecrets) {
	if s.MongoURI != "" {
		c.Database.MongoURI = s.MongoURI
	}
	if port := s.port(); port != "" {
		c.Server.Port = port
	}
	if s.JWTAccessSecret != "" {
		if c.JWT.ResetSecret == c.JWT.AccessSecret {
			c.JWT.ResetSecret = s.JWTAccessSecret
		}
		c.JWT.AccessSecret = s.JWTAccessSecret
	}
	if s.JWTRefreshSecret != "" {
		c.JWT.RefreshSecret = s.JWTRefreshSecret
	}
	if s.EmailUser != "" {
		if c.SMTP.From == c.SMTP.User {
			c.SMTP.From = s.EmailUser
		}
		c.SMTP.User = s.EmailUser
	}
	if s.EmailPass != "" {
		c.SMTP.Password = s.EmailPass
	}
}
