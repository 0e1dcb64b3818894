package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Errors for settings access
var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrInvalidValue = errors.New("invalid settings value")
)

// Load reads the settings file at path. Each line is decoded on its own so a
// malformed line is logged and skipped instead of failing the whole file;
// keys that never appear keep their defaults.
func Load(path string, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := Defaults()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, err := parseLine(line)
		if err != nil {
			logger.Warn("skipping malformed settings line",
				zap.String("file", path), zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if err := settings.Set(key, value); err != nil {
			logger.Warn("ignoring settings entry",
				zap.String("file", path), zap.Int("line", lineNo), zap.Error(err))
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan settings file: %w", err)
	}

	normalize(&settings, logger)
	return &settings, nil
}

// parseLine decodes a single `key = value` line. TOML values are preferred;
// a bare unquoted value is taken as a string.
func parseLine(line string) (string, any, error) {
	var kv map[string]any
	if err := toml.Unmarshal([]byte(line), &kv); err == nil {
		if len(kv) != 1 {
			return "", nil, fmt.Errorf("expected a single key = value pair: %q", line)
		}
		for k, v := range kv {
			return k, v, nil
		}
	}

	idx := strings.Index(line, "=")
	if idx <= 0 {
		return "", nil, fmt.Errorf("missing '=' in %q", line)
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.ContainsAny(key, " \t[]\"'") {
		return "", nil, fmt.Errorf("invalid key in %q", line)
	}
	return key, strings.TrimSpace(line[idx+1:]), nil
}

// normalize replaces out-of-domain values with their defaults
func normalize(s *Settings, logger *zap.Logger) {
	defaults := Defaults()

	if s.TargetSizeMB <= 0 {
		logger.Warn("target_size_mb must be positive, using default",
			zap.Float64("value", s.TargetSizeMB), zap.Float64("default", defaults.TargetSizeMB))
		s.TargetSizeMB = defaults.TargetSizeMB
	}
	if s.ProbeMode != ProbeModeFFprobe && s.ProbeMode != ProbeModeText {
		logger.Warn("unknown probe_mode, using default",
			zap.String("value", s.ProbeMode), zap.String("default", defaults.ProbeMode))
		s.ProbeMode = defaults.ProbeMode
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	if !validLogLevels[s.LogLevel] {
		logger.Warn("unknown log_level, using default",
			zap.String("value", s.LogLevel), zap.String("default", defaults.LogLevel))
		s.LogLevel = defaults.LogLevel
	}
	for _, dir := range []struct {
		key string
		ptr *string
		def string
	}{
		{"input_dir", &s.InputDir, defaults.InputDir},
		{"output_dir", &s.OutputDir, defaults.OutputDir},
		{"temp_dir", &s.TempDir, defaults.TempDir},
	} {
		if strings.TrimSpace(*dir.ptr) == "" {
			logger.Warn("empty directory setting, using default", zap.String("key", dir.key), zap.String("default", dir.def))
			*dir.ptr = dir.def
		}
	}
	for _, tool := range []struct {
		ptr *string
		def string
	}{
		{&s.FFmpegPath, defaults.FFmpegPath},
		{&s.FFprobePath, defaults.FFprobePath},
		{&s.FFplayPath, defaults.FFplayPath},
	} {
		if strings.TrimSpace(*tool.ptr) == "" {
			*tool.ptr = tool.def
		}
	}
}

// Save writes the settings to path
func Save(s *Settings, path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	header := []byte("# clip-trimmer settings: one key = value per line\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Bootstrap loads the settings file, writing defaults first if it does not
// exist, and creates the input, output and temp directories.
func Bootstrap(path string, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		defaults := Defaults()
		if err := Save(&defaults, path); err != nil {
			return nil, err
		}
		logger.Info("created settings file with defaults", zap.String("path", path))
	}

	settings, err := Load(path, logger)
	if err != nil {
		return nil, err
	}

	if err := EnsureDirectories(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// EnsureDirectories creates the input, output and temp directories
func EnsureDirectories(s *Settings) error {
	for _, dir := range []string{s.InputDir, s.OutputDir, s.TempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
