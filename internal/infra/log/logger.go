package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger создаёт настроенный zerolog.
func NewLogger(appEnv string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if appEnv == "dev" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

// RecoverWith гасит панику и пишет её в лог. Применяется в точках,
// где сбой одной единицы работы не должен ронять процесс.
func RecoverWith(logger zerolog.Logger, scope string) {
	if r := recover(); r != nil {
		logger.Error().Interface("panic", r).Str("scope", scope).Msg("перехвачена паника")
	}
}
