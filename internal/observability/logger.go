package observability

import (
	"github.com/danmuck/pktdecode/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger tags the global logger with the running app name. Each call
// replaces the previous tag.
func InitLogger(app string) zerolog.Logger {
	logger := logging.Base().With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
