package skills

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument accessors for model-provided payloads. The declared JSON schema is
// a permissive contract: the model can and does produce wrong types, so each
// skill validates field presence and shape before use.

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func requireString(args map[string]any, key string) (string, error) {
	s := stringArg(args, key)
	if s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

// floatArg accepts JSON numbers and numeric strings since models emit both.
func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func requireFloat(args map[string]any, key string) (float64, error) {
	f, ok := floatArg(args, key)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
	return f, nil
}

func intArg(args map[string]any, key string, fallback int) int {
	f, ok := floatArg(args, key)
	if !ok {
		return fallback
	}
	return int(f)
}
