package cli

import (
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	t.Setenv(envConfigPath, "")
	t.Setenv(envPort, "9090")

	root := newRootCmd()
	for _, name := range []string{"start", "migrate", "seed"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v", name, err)
		}
	}

	if got := root.PersistentFlags().Lookup("config").DefValue; got != defaultConfigPath {
		t.Fatalf("expected empty env to fall back to %s, got %s", defaultConfigPath, got)
	}
	if got := root.PersistentFlags().Lookup("port").DefValue; got != "9090" {
		t.Fatalf("expected port from env, got %s", got)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("QUIZ_TEST_VALUE", "set")
	if got := envOr("QUIZ_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected env value, got %s", got)
	}
	if got := envOr("QUIZ_TEST_UNSET_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
}
