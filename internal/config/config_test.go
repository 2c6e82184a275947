package config

import (
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/testutil"
)

func fakeEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(fakeEnv(nil))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg, NewConfig())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(fakeEnv(map[string]string{
		"CHESS_ADDR":                 ":8080",
		"CHESS_ALLOW_ORIGINS":        "http://a.test, http://b.test,",
		"CHESS_WS_BUFFER":            "4096",
		"CHESS_MATCHMAKING_INTERVAL": "250ms",
	}))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Addr, ":8080")
	testutil.AssertEqual(t, cfg.WSBufferSize, 4096)
	testutil.AssertEqual(t, cfg.MatchmakingInterval, 250*time.Millisecond)
	testutil.AssertEqual(t, cfg.Origins(), []string{"http://a.test", "http://b.test"})
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "buffer not a number", env: map[string]string{"CHESS_WS_BUFFER": "big"}},
		{name: "buffer zero", env: map[string]string{"CHESS_WS_BUFFER": "0"}},
		{name: "interval not a duration", env: map[string]string{"CHESS_MATCHMAKING_INTERVAL": "soon"}},
		{name: "interval negative", env: map[string]string{"CHESS_MATCHMAKING_INTERVAL": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(fakeEnv(tt.env))
			if err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
