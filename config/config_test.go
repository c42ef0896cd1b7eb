package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clanpj/stablebot/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stablebot.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")
	t.Setenv(LogLevelEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	t.Setenv(TokenEnv, "")
	t.Setenv(LogLevelEnv, "")

	path := writeConfig(t, `{
		"engine": {"search_depth": 5, "check_reply_lookahead": false},
		"server": {"max_depth": 8},
		"lichess": {"bot_name": "Tester"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Engine.SearchDepth = 5
	want.Engine.CheckReplyLookahead = false
	want.Server.MaxDepth = 8
	want.Lichess.BotName = "Tester"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(TokenEnv, "lip_secret")
	t.Setenv(LogLevelEnv, "DEBUG")

	path := writeConfig(t, `{"lichess": {"token": "from-file"}, "log": {"level": "warn"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lichess.Token != "lip_secret" || cfg.Log.Level != "debug" {
		t.Errorf("env not applied: token %q level %q", cfg.Lichess.Token, cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file returned %v", err)
	}
	if _, err := Load(writeConfig(t, `{"engine": `)); err == nil {
		t.Errorf("truncated json accepted")
	}
	if _, err := Load(writeConfig(t, `{"engine": {"qsearch_floor": 200}}`)); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Errorf("bad engine config returned %v", err)
	}
	if _, err := Load(writeConfig(t, `{"server": {"max_concurrent_searches": 0}}`)); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero searches returned %v", err)
	}
	if _, err := Load(writeConfig(t, `{"bench": {"workers": 0}}`)); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero workers returned %v", err)
	}
}
