package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings holds the user-tunable values of the contact list.
// Every field has a default; a YAML file only needs the keys it overrides.
type Settings struct {
	PageSize        int    `yaml:"page_size"`
	FallbackAvatar  string `yaml:"fallback_avatar"`
	BrandingImage   string `yaml:"branding_image"`
	Collation       string `yaml:"collation"`
	Language        string `yaml:"language"`
	ServerPort      string `yaml:"server_port"`
	SpreadsheetFile string `yaml:"spreadsheet_file"`
	DocumentFile    string `yaml:"document_file"`
	TimestampLayout string `yaml:"timestamp_layout"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		PageSize:        DefaultPageSize,
		FallbackAvatar:  DefaultFallbackAvatar,
		BrandingImage:   DefaultBrandingImage,
		Collation:       DefaultCollation,
		Language:        DefaultLanguage,
		ServerPort:      DefaultPort,
		SpreadsheetFile: DefaultSpreadsheetFile,
		DocumentFile:    DefaultDocumentFile,
		TimestampLayout: DefaultTimestampLayout,
	}
}

// LoadSettings reads a YAML settings file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	// Unmarshal onto the defaults so absent keys keep their default value.
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	slog.Debug(MsgSettingsFile,
		LogKeyComponent, CompConfig,
		LogKeyFile, path,
		LogKeyPageSize, s.PageSize,
	)
	return s, nil
}

// Validate checks the ranges of numeric settings and the collation tag.
func (s Settings) Validate() error {
	if s.PageSize < MinPageSize || s.PageSize > MaxPageSize {
		return errors.New(ErrPageSizeRange)
	}
	if err := ValidatePort(s.ServerPort); err != nil {
		return err
	}
	if _, err := language.Parse(s.Collation); err != nil {
		return fmt.Errorf("%s: %w", ErrCollation, err)
	}
	return nil
}

// CollationTag returns the language used for name ordering.
// Settings are validated on load, so an invalid tag falls back to the default.
func (s Settings) CollationTag() language.Tag {
	tag, err := language.Parse(s.Collation)
	if err != nil {
		return language.MustParse(DefaultCollation)
	}
	return tag
}

// ValidatePort checks that a port string is a number in the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
