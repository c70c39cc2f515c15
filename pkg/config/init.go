package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileHeader = `# vrepo configuration file.
#
# Every key can also be set through the environment with the VREPO_ prefix,
# e.g. VREPO_LOGGING_LEVEL=debug or VREPO_STORE_TYPE=badger.
`

// WriteDefaultConfig generates a commented default configuration file at
// path (or the default location when path is empty). Refuses to overwrite
// an existing file.
func WriteDefaultConfig(path string) (string, error) {
	if path == "" {
		path = GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal default config: %w", err)
	}

	content := append([]byte(configFileHeader+"\n"), body...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
