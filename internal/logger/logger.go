package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger

	// helpers skips the package-level wrapper frame when reporting callers.
	helpers *zap.Logger
)

// New builds a zap logger for the given environment without touching the globals.
func New(environment string) (*zap.Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "user-auth-service")),
	)
}

func Init(environment string) error {
	l, err := New(environment)
	if err != nil {
		return err
	}

	Logger = l
	helpers = l.WithOptions(zap.AddCallerSkip(1))
	zap.ReplaceGlobals(Logger)

	return nil
}

// L returns the process logger, or a no-op logger before Init has run.
func L() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

func h() *zap.Logger {
	if helpers == nil {
		return zap.NewNop()
	}
	return helpers
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func WithRequestID(requestID string) *zap.Logger {
	return L().With(zap.String("request_id", requestID))
}

// Printf adapts the logger to libraries that expect a Printf style sink.
type Printf struct {
	Sugar *zap.SugaredLogger
}

func (p Printf) Printf(format string, args ...interface{}) {
	p.Sugar.Infof(format, args...)
}

func (p Printf) Fatalf(format string, args ...interface{}) {
	p.Sugar.Fatalf(format, args...)
}

func Debug(msg string, fields ...zap.Field) {
	h().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	h().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	h().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	h().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	h().Fatal(msg, fields...)
}
