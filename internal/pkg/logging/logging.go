// Package logging builds the zap logger used across the server: console
// output always, plus a daily log file when a log directory is configured.
package logging

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logDirPerm = 0o755

// New constructs the process logger. dev switches to the development
// encoder and Debug level. logDir may be empty; then only the console
// core is active.
func New(dev bool, logDir string) (*zap.Logger, error) {
	level := zap.InfoLevel
	if dev {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if dev {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(dev, encCfg), zapcore.Lock(os.Stdout), level),
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, logDirPerm); err != nil {
			return nil, err
		}
		path := filepath.Join(logDir, "server_"+time.Now().Format("2006-01-02")+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.Lock(f), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func consoleEncoder(dev bool, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if dev {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}
