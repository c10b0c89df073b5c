package repocat

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/hayeah/repocat/internal/selection"
)

// Config is the legacy structured configuration shape: a flat list of allowed
// file extensions. When present it activates the selector's extension mode.
type Config struct {
	FileExtensions []string `json:"file_extensions"`
}

// LoadConfig reads a legacy JSON config file. The file is standardized with
// hujson first, so comments and trailing commas are tolerated.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w: %v", path, ErrConfig, err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w: %v", path, ErrConfig, err)
	}

	if len(cfg.FileExtensions) == 0 {
		return nil, fmt.Errorf("config file %s: %w: file_extensions must not be empty", path, ErrConfig)
	}
	return &cfg, nil
}

// SplitPatterns parses a comma-delimited pattern list, dropping empty
// entries and surrounding whitespace.
func SplitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BuildRules constructs selection rules from the configuration surface.
// Exactly one mode is active per run: a legacy config selects extension mode,
// include/exclude pattern lists select glob mode, and supplying both is a
// configuration error. With neither, glob mode runs with the default include
// set.
func BuildRules(cfg *Config, include, exclude string) (*selection.Rules, error) {
	if cfg != nil && (include != "" || exclude != "") {
		return nil, fmt.Errorf("%w: config file and include/exclude patterns are mutually exclusive", ErrConfig)
	}

	if cfg != nil {
		return selection.NewExtensionRules(cfg.FileExtensions), nil
	}

	rules, err := selection.NewGlobRules(SplitPatterns(include), SplitPatterns(exclude))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return rules, nil
}
