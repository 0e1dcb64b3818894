package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Probe modes
const (
	ProbeModeFFprobe = "ffprobe"
	ProbeModeText    = "text"
)

// DefaultSettingsPath is used when --config is not given
const DefaultSettingsPath = "config/settings.toml"

// Settings is the typed form of the flat key=value settings file
type Settings struct {
	InputDir     string  `toml:"input_dir"`
	OutputDir    string  `toml:"output_dir"`
	TempDir      string  `toml:"temp_dir"`
	TargetSizeMB float64 `toml:"target_size_mb"`
	OutputSuffix string  `toml:"output_suffix"`
	VideoEncoder string  `toml:"video_encoder"`
	AudioBitrate string  `toml:"audio_bitrate"`
	ProbeMode    string  `toml:"probe_mode"`
	FFmpegPath   string  `toml:"ffmpeg_path"`
	FFprobePath  string  `toml:"ffprobe_path"`
	FFplayPath   string  `toml:"ffplay_path"`
	LogLevel     string  `toml:"log_level"`

	DriveFolderID         string `toml:"drive_folder_id"`
	GoogleCredentialsFile string `toml:"google_credentials_file"`
	GoogleTokenFile       string `toml:"google_token_file"`
}

// Defaults returns the documented default settings
func Defaults() Settings {
	return Settings{
		InputDir:              "input",
		OutputDir:             "output",
		TempDir:               "temp",
		TargetSizeMB:          10,
		OutputSuffix:          " - Trim",
		VideoEncoder:          "libx264",
		AudioBitrate:          "192k",
		ProbeMode:             ProbeModeFFprobe,
		FFmpegPath:            "ffmpeg",
		FFprobePath:           "ffprobe",
		FFplayPath:            "ffplay",
		LogLevel:              "info",
		GoogleCredentialsFile: "config/credentials.json",
		GoogleTokenFile:       "config/token.json",
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks values that have a restricted domain
func (s *Settings) Validate() error {
	if s.TargetSizeMB <= 0 {
		return fmt.Errorf("target_size_mb must be greater than zero, got %g", s.TargetSizeMB)
	}
	if s.ProbeMode != ProbeModeFFprobe && s.ProbeMode != ProbeModeText {
		return fmt.Errorf("probe_mode must be %q or %q, got %q", ProbeModeFFprobe, ProbeModeText, s.ProbeMode)
	}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", s.LogLevel)
	}
	for key, dir := range map[string]string{"input_dir": s.InputDir, "output_dir": s.OutputDir, "temp_dir": s.TempDir} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// field locates a Settings struct field by its toml key
type field struct {
	index int
	kind  reflect.Kind
}

var settingsFields = func() map[string]field {
	t := reflect.TypeOf(Settings{})
	fields := make(map[string]field, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fields[f.Tag.Get("toml")] = field{index: i, kind: f.Type.Kind()}
	}
	return fields
}()

// Keys returns every settings key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(settingsFields))
	for k := range settingsFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key formatted as a string
func (s *Settings) Get(key string) (string, error) {
	f, ok := settingsFields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	v := reflect.ValueOf(s).Elem().Field(f.index)
	if f.kind == reflect.Float64 {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return v.String(), nil
}

// Set assigns a decoded value to key. Strings are accepted for numeric keys.
func (s *Settings) Set(key string, value any) error {
	f, ok := settingsFields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	target := reflect.ValueOf(s).Elem().Field(f.index)

	switch f.kind {
	case reflect.String:
		switch v := value.(type) {
		case string:
			target.SetString(v)
		case int64, float64, bool:
			target.SetString(fmt.Sprint(v))
		default:
			return fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidValue, key, value)
		}
	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			target.SetFloat(v)
		case int64:
			target.SetFloat(float64(v))
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidValue, key, v)
			}
			target.SetFloat(n)
		default:
			return fmt.Errorf("%w: %s expects a number, got %T", ErrInvalidValue, key, value)
		}
	}
	return nil
}
