package app

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SetupLogger настраивает формат и уровень глобального логгера logrus.
// При неизвестном уровне остаётся info и возвращается ошибка.
func SetupLogger(level string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		log.SetLevel(log.InfoLevel)
		return fmt.Errorf("invalid %s=%q: %w", EnvLogLevel, level, err)
	}
	log.SetLevel(parsed)
	return nil
}
