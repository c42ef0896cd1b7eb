package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/clanpj/stablebot/config"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("game", "abc").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"game":"abc"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestNewUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "chatty"}, &buf)

	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("bad level not reported: %s", buf.String())
	}
	logger.Debug().Msg("debug line")
	if strings.Contains(buf.String(), "debug line") {
		t.Errorf("debug logged after falling back to info")
	}
}
