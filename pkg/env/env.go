package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	motmedelEnvErrors "github.com/Motmedel/results_go/pkg/env/errors"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
)

// ReadEnv returns the value of the named variable, which must be set and non-empty.
func ReadEnv(name string) (string, error) {
	value, found := os.LookupEnv(name)
	if !found {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", motmedelEnvErrors.ErrNotPresent, name), name)
	} else if value == "" {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", motmedelEnvErrors.ErrEmpty, name), name)
	}

	return value, nil
}

// OverrideString sets *target to the value of the named variable when it is set and non-empty.
func OverrideString(name string, target *string) {
	if target == nil {
		return
	}
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func OverrideBool(name string, target *bool) error {
	value := os.Getenv(name)
	if value == "" || target == nil {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return motmedelErrors.New(
			fmt.Errorf("%w: strconv parse bool: %w", motmedelEnvErrors.ErrMalformed, err),
			name, value,
		)
	}
	*target = parsed

	return nil
}

func OverrideDuration(name string, target *time.Duration) error {
	value := os.Getenv(name)
	if value == "" || target == nil {
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return motmedelErrors.New(
			fmt.Errorf("%w: time parse duration: %w", motmedelEnvErrors.ErrMalformed, err),
			name, value,
		)
	}
	*target = parsed

	return nil
}
