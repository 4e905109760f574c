package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

// DebugEnv enables debug logging when set to any non-empty value. It is
// also injected into the deployed function's environment so a redeploy is
// not needed to get verbose output from a broken invocation.
const DebugEnv = "CUTTER_DEBUG"

func NewLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if os.Getenv(DebugEnv) != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Development = true
	}

	t, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return t.Sugar()
}
