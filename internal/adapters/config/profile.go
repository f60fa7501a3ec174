package config

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// ProfileLoader implements ports.ProfileLoader using YAML profile files.
type ProfileLoader struct {
	FS       FileSystem
	detect   func() domain.Settings
	validate *validator.Validate
}

// NewProfileLoader creates a ProfileLoader. detect supplies the platform
// defaults used for every axis neither the profile nor an override sets.
func NewProfileLoader(fsys FileSystem, detect func() domain.Settings) *ProfileLoader {
	return &ProfileLoader{FS: fsys, detect: detect, validate: newValidator()}
}

// LoadProfile reads the profile at path (skipped when empty), applies overrides
// in order and fills the remaining axes from detection.
func (p *ProfileLoader) LoadProfile(path string, overrides []string) (domain.Settings, error) {
	var settings domain.Settings

	if path != "" {
		var profile Profile
		if err := readAndUnmarshalYAML(p.FS, path, &profile); err != nil {
			return domain.Settings{}, err
		}
		if err := validateStruct(p.validate, &profile, path); err != nil {
			return domain.Settings{}, err
		}

		keys := make([]string, 0, len(profile.Settings))
		for k := range profile.Settings {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			var err error
			settings, err = settings.With(k, profile.Settings[k])
			if err != nil {
				return domain.Settings{}, zerr.With(err, "file", path)
			}
		}
	}

	for _, o := range overrides {
		var err error
		settings, err = settings.WithOverride(o)
		if err != nil {
			return domain.Settings{}, err
		}
	}

	if p.detect != nil {
		settings = settings.Merge(p.detect())
	}
	return settings, nil
}
