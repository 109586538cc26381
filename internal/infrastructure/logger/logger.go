package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"orderdesk/internal/config"
)

const serviceName = "orderdesk"

// New builds a production logger from cfg. Unknown levels fall back to info;
// the console format is meant for orderctl and local runs.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.InitialFields = map[string]interface{}{"service": serviceName}

	if cfg.Format == config.LogFormatConsole {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zcfg.Sampling = nil
		zcfg.InitialFields = nil
	}

	return zcfg.Build()
}
