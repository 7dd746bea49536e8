// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// First returns the first non-blank value among keys, trimmed.
// Example: First("NAME_PREFIX", "SSM_PREFIX") falls back to SSM_PREFIX.
func First(keys ...string) (string, bool) {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value, true
		}
	}
	return "", false
}

// Int parses key as a decimal integer. Unset keys report ok=false.
func Int(key string) (value int, ok bool, err error) {
	raw, ok := First(key)
	if !ok {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// Duration parses key with time.ParseDuration.
func Duration(key string) (value time.Duration, ok bool, err error) {
	raw, ok := First(key)
	if !ok {
		return 0, false, nil
	}
	value, err = time.ParseDuration(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// Bool parses key with strconv.ParseBool.
func Bool(key string) (value bool, ok bool, err error) {
	raw, ok := First(key)
	if !ok {
		return false, false, nil
	}
	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, true, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}
