package env

import (
	"errors"
	"testing"
	"time"

	motmedelEnvErrors "github.com/Motmedel/results_go/pkg/env/errors"
)

func TestReadEnv(t *testing.T) {
	t.Setenv("RESULTS_TEST_SET", "value")
	t.Setenv("RESULTS_TEST_EMPTY", "")

	if value, err := ReadEnv("RESULTS_TEST_SET"); err != nil || value != "value" {
		t.Errorf("got %q, %v", value, err)
	}
	if _, err := ReadEnv("RESULTS_TEST_EMPTY"); !errors.Is(err, motmedelEnvErrors.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := ReadEnv("RESULTS_TEST_MISSING_VARIABLE"); !errors.Is(err, motmedelEnvErrors.ErrNotPresent) {
		t.Errorf("expected ErrNotPresent, got %v", err)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("RESULTS_TEST_ADDRESS", ":9090")
	t.Setenv("RESULTS_TEST_BOOL", "true")
	t.Setenv("RESULTS_TEST_DURATION", "3s")
	t.Setenv("RESULTS_TEST_BAD_BOOL", "maybe")

	address := ":8080"
	OverrideString("RESULTS_TEST_ADDRESS", &address)
	if address != ":9090" {
		t.Errorf("got address %q", address)
	}

	var enabled bool
	if err := OverrideBool("RESULTS_TEST_BOOL", &enabled); err != nil || !enabled {
		t.Errorf("got %v, %v", enabled, err)
	}

	var timeout time.Duration
	if err := OverrideDuration("RESULTS_TEST_DURATION", &timeout); err != nil || timeout != 3*time.Second {
		t.Errorf("got %v, %v", timeout, err)
	}

	if err := OverrideBool("RESULTS_TEST_BAD_BOOL", &enabled); !errors.Is(err, motmedelEnvErrors.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
