package log

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// NewLogger creates a configured zerolog.Logger instance. The log file, if
// any, is closed when the application stops.
func NewLogger(lc fx.Lifecycle, cfg *config.Config) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	// The file gets plain JSON lines, the console stays human readable
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return file.Close()
			},
		})
	}

	return newLogger(out, cfg.Debug)
}

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

func Module() fx.Option {
	return fx.Module(
		"log",
		fx.Provide(
			NewLogger,
		),
	)
}
