package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClipPolicy holds the validated clip processing limits. It is loaded once
// at startup and never mutated afterwards; every component that enforces a
// limit receives it from here.
type ClipPolicy struct {
	// MaxSizeBytes is the maximum accepted upload size
	MaxSizeBytes int64
	// MinDuration is the minimum duration in seconds of a trimmed clip
	MinDuration float64
	// MaxDuration is the maximum total duration in seconds of a merged clip
	MaxDuration float64
}

// clipPolicyFile is the on-disk YAML shape of the policy
type clipPolicyFile struct {
	MaxSize     *string  `yaml:"maxSize"`
	MinDuration *float64 `yaml:"minDuration"`
	MaxDuration *float64 `yaml:"maxDuration"`
}

// maxSizePattern matches size expressions like "500mb"
var maxSizePattern = regexp.MustCompile(`^(\d+)([a-zA-Z]+)$`)

// LoadClipPolicy reads and validates the clip policy YAML file
func LoadClipPolicy(path string) (*ClipPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip policy file: %w", err)
	}

	return parseClipPolicy(raw)
}

// parseClipPolicy deserializes and validates the policy document
func parseClipPolicy(raw []byte) (*ClipPolicy, error) {
	var file clipPolicyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid clip policy yaml: %w", err)
	}

	if file.MaxSize == nil {
		return nil, fmt.Errorf("maxSize is required")
	}
	if file.MinDuration == nil {
		return nil, fmt.Errorf("minDuration is required")
	}
	if file.MaxDuration == nil {
		return nil, fmt.Errorf("maxDuration is required")
	}

	maxSizeBytes, err := parseSizeExpression(*file.MaxSize)
	if err != nil {
		return nil, err
	}

	return &ClipPolicy{
		MaxSizeBytes: maxSizeBytes,
		MinDuration:  *file.MinDuration,
		MaxDuration:  *file.MaxDuration,
	}, nil
}

// parseSizeExpression converts a "<integer><unit>" expression into a byte
// count. Only the megabyte unit is supported.
func parseSizeExpression(expr string) (int64, error) {
	match := maxSizePattern.FindStringSubmatch(strings.TrimSpace(expr))
	if match == nil {
		return 0, fmt.Errorf("invalid maxSize format: %q", expr)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid maxSize value: %w", err)
	}

	switch strings.ToLower(match[2]) {
	case "mb":
		return value * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("unsupported size unit: %q", match[2])
	}
}
