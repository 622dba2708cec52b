// Package config provides the settings loader for bmake.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the settings file version this loader understands.
const SupportedVersion = "1"

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	validate *validator.Validate
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads bmake.yaml from dir and merges it over domain.DefaultSettings().
func (l *Loader) Load(dir string) (domain.Settings, error) {
	path := filepath.Join(dir, domain.SettingsFileName)

	var file Settingsfile
	found, err := readAndUnmarshalYAML(path, &file)
	if err != nil || !found {
		return domain.DefaultSettings(), err
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf(
			"%s declares version %q, reading it as version %s", domain.SettingsFileName, file.Version, SupportedVersion,
		))
	}

	if err := l.validate.Struct(file); err != nil {
		return domain.DefaultSettings(), validationError(path, err)
	}

	return merge(dir, file), nil
}

func merge(dir string, file Settingsfile) domain.Settings {
	s := domain.DefaultSettings()
	if file.Script != "" {
		s.Script = file.Script
		if !filepath.IsAbs(s.Script) {
			s.Script = filepath.Join(dir, s.Script)
		}
	}
	if file.Target != "" {
		s.Target = file.Target
	}
	if file.Jobs > 0 {
		s.Jobs = file.Jobs
	}
	if file.Expansion != "" {
		s.Expansion = domain.ExpansionMode(file.Expansion)
	}
	if file.Output != "" {
		s.Output = file.Output
	}
	if file.Cache != nil {
		s.Cache = *file.Cache
	}
	for k, v := range file.Env {
		s.Env[k] = v
	}
	s.Watch.Patterns = file.Watch.Patterns
	if file.Watch.Debounce > 0 {
		s.Watch.Debounce = file.Watch.Debounce
	}
	return s
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// A missing file is not an error; found reports whether it existed.
func readAndUnmarshalYAML[T any](path string, target *T) (found bool, err error) {
	//nolint:gosec // The path is the fixed settings file name inside the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrSettingsReadFailed.Error()), "path", path)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return false, zerr.With(zerr.Wrap(parseErr, domain.ErrSettingsParseFailed.Error()), "path", path)
	}

	return true, nil
}

func validationError(path string, err error) error {
	wrapped := zerr.Wrap(domain.ErrSettingsInvalid, "settings validation failed")
	wrapped = zerr.With(wrapped, "path", path)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		wrapped = zerr.With(wrapped, "field", first.Namespace())
		wrapped = zerr.With(wrapped, "rule", first.Tag())
	}
	return wrapped
}
