package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/pktdecode/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLoggerReplacesAppTag(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.Apply(logging.DefaultConfig(logging.ProfileTest))
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	logging.Apply(logging.Config{Level: zerolog.InfoLevel, Bypass: true, Out: &buf})
	InitLogger("pktctl")
	InitLogger("pktctl-serve")
	log.Info().Msg("starting decoder node")

	out := buf.String()
	if strings.Count(out, `"app"`) != 1 || !strings.Contains(out, `"app":"pktctl-serve"`) {
		t.Fatalf("expected a single app tag, got %s", out)
	}
}
