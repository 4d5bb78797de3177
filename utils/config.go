package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "duplex", "config.yaml")
}

// YAMLConfigLoader is a kong.ConfigurationLoader reading flag defaults from a
// flat YAML mapping. Keys are flag names; "-" and "_" are interchangeable.
//
//	workers: 4
//	filter-small: 1024
//	rfolder: [/srv/photos, /srv/backup]
func YAMLConfigLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[strings.ReplaceAll(k, "_", "-")] = v
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := normalized[flag.Name]
		if !ok {
			return nil, nil
		}
		list, ok := raw.([]any)
		if !ok {
			return raw, nil
		}
		if flag.Tag.Sep == -1 {
			return list, nil
		}
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = fmt.Sprint(v)
		}
		return strings.Join(parts, string(flag.Tag.Sep)), nil
	}
	return resolver, nil
}
