// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/lshigami/behavio/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init installs a human-readable console logger. It runs before the config is
// loaded so startup messages are formatted too.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Level picks the global log level. An explicit LOG_LEVEL always wins; without
// one, debug mode logs at debug and everything else at info.
func Level(cfg *config.Config) zerolog.Level {
	if cfg.Log.Level == "" {
		if cfg.Server.Mode == "debug" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Err(err).Str("level", cfg.Log.Level).Msg("Unknown LOG_LEVEL, using info")
		return zerolog.InfoLevel
	}
	return level
}

// Configure applies the log level and output from config. In release mode
// logs are JSON; a LOG_FILE adds a rotating file sink.
func Configure(cfg *config.Config) {
	level := Level(cfg)
	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stdout
	if cfg.Server.Mode != "release" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	if cfg.Log.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Info().Str("level", level.String()).Str("file", cfg.Log.File).Msg("Logger configured")
}
