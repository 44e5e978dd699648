package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteDefault writes a starter config file to path, or to ConfigPath when
// path is empty, and returns the path written. An existing file is kept
// unless force is set, in which case it is backed up first.
func WriteDefault(path string, force bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}
	path = ExpandPath(path)

	if _, err := os.Stat(path); err == nil {
		if !force {
			return "", fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := BackupFile(path); err != nil {
			return "", fmt.Errorf("failed to back up existing config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(Default())), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Render produces a commented YAML document for ac.
func Render(ac AppConfig) string {
	var sb strings.Builder
	sb.WriteString("# ainews configuration\n")

	if strings.TrimSpace(ac.DatabasePath) != "" {
		sb.WriteString(fmt.Sprintf("database_path: %q\n", ac.DatabasePath))
	} else {
		sb.WriteString(fmt.Sprintf("# database_path: %q\n", FallbackDBPath()))
	}

	sb.WriteString("source:\n")
	sb.WriteString(fmt.Sprintf("  default: %q\n", ac.Source.Default))
	sb.WriteString(fmt.Sprintf("  timeout: %d\n", ac.Source.TimeoutSec))
	sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.Source.BaseURL))
	if len(ac.Source.AllowedHosts) > 0 {
		sb.WriteString("  allowed_hosts:\n")
		for _, h := range ac.Source.AllowedHosts {
			sb.WriteString(fmt.Sprintf("    - %s\n", h))
		}
	}
	sb.WriteString("  sections:\n")
	for _, s := range ac.Source.Sections {
		sb.WriteString(fmt.Sprintf("    - name: %q\n", s.Name))
		sb.WriteString(fmt.Sprintf("      url: %s\n", s.URL))
	}
	sb.WriteString("  # selectors override the card layout, see scrape.DefaultSelectors\n")

	sb.WriteString("ai:\n")
	if ac.AI.APIKey != "" {
		sb.WriteString(fmt.Sprintf("  api_key: %q\n", ac.AI.APIKey))
	} else {
		sb.WriteString("  # api_key is read from AINEWS_AI_API_KEY or GEMINI_API_KEY when unset\n")
	}
	if ac.AI.Model != "" {
		sb.WriteString(fmt.Sprintf("  model: %q\n", ac.AI.Model))
	} else {
		sb.WriteString("  # model: \"gemini-1.5-flash-latest\"\n")
	}
	if ac.AI.BaseUrl != "" {
		sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.AI.BaseUrl))
	}
	if ac.AI.MinIntervalMs > 0 {
		sb.WriteString(fmt.Sprintf("  min_interval_ms: %d\n", ac.AI.MinIntervalMs))
	} else {
		sb.WriteString("  # min_interval_ms: 1100\n")
	}
	if strings.TrimSpace(ac.AI.Prompt) != "" {
		sb.WriteString("  prompt: |\n")
		for _, line := range strings.Split(ac.AI.Prompt, "\n") {
			sb.WriteString("    " + line + "\n")
		}
	}

	sb.WriteString("log:\n")
	sb.WriteString(fmt.Sprintf("  level: %s\n", ac.Log.Level))
	sb.WriteString(fmt.Sprintf("  format: %s\n", ac.Log.Format))
	if ac.Log.File != "" {
		sb.WriteString(fmt.Sprintf("  file: %q\n", ac.Log.File))
	}
	return sb.String()
}

// BackupFile creates a backup of the specified file with a timestamp
func BackupFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102-150405")
	bak := path + ".bak-" + ts
	return os.WriteFile(bak, b, 0o644)
}
