package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// New builds the service logger. Production uses JSON with ISO8601 timestamps;
// anything else uses the colored development console encoder. When cloudWatch
// is non-nil every entry is also written to it as JSON.
func New(env string, cloudWatch io.Writer) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cloudWatch == nil {
		return config.Build()
	}
	return newTee(env, config, os.Stdout, cloudWatch), nil
}

// newTee writes every entry to stdout, in the same encoding the untee'd logger
// would use for env, and as JSON to cloudWatch.
func newTee(env string, config zap.Config, stdout, cloudWatch io.Writer) *zap.Logger {
	level := zap.NewAtomicLevelAt(config.Level.Level())

	var stdoutEncoder zapcore.Encoder
	if env == "production" {
		stdoutEncoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		stdoutEncoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	stdoutCore := zapcore.NewCore(stdoutEncoder, zapcore.AddSync(stdout), level)

	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cwCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(cloudWatch), level)

	return zap.New(zapcore.NewTee(stdoutCore, cwCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// WithRequestID stores a request id on ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id stored on ctx, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// FromContext returns l annotated with the request id of ctx, if any.
func FromContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if rid := RequestID(ctx); rid != "" {
		return l.With(zap.String("request_id", rid))
	}
	return l
}
