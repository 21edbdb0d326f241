package logger

import (
	"fmt"
	"os"

	"github.com/glanzwerk/crm/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the API server logger. Production and format "json" emit
// JSON lines; everything else gets the colored console encoder.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// NewFileLogger writes JSON lines to path. The terminal client owns stdout,
// so its logs go to a file or nowhere.
func NewFileLogger(path, level string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(f), parseLevel(level))
	return zap.New(core), nil
}

func parseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// SessionFields describes who made a request. Portal sessions carry the
// customer they are scoped to.
func SessionFields(userID int64, name, role string, customerID *int64) []zap.Field {
	fields := []zap.Field{
		zap.Int64("user_id", userID),
		zap.String("user_name", name),
		zap.String("role", role),
	}
	if customerID != nil {
		fields = append(fields, zap.Int64("customer_id", *customerID))
	}
	return fields
}
