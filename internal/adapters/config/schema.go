package config

import (
	"errors"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Descriptor represents the structure of the rig.yaml package descriptor.
type Descriptor struct {
	Name           string       `yaml:"name" validate:"omitempty,package_name"`
	Version        string       `yaml:"version" validate:"required_with=Name"`
	Settings       []string     `yaml:"settings" validate:"omitempty,settings_axes"`
	Generators     []string     `yaml:"generators" validate:"dive,required"`
	Requires       []string     `yaml:"requires" validate:"dive,required"`
	ExportsSources []string     `yaml:"exports_sources" validate:"dive,required"`
	DefaultOptions OptionValues `yaml:"default_options"`
	CppStd         string       `yaml:"cppstd" validate:"omitempty,alphanum"`
	Layout         string       `yaml:"layout" validate:"omitempty,oneof=self parent"`
	Packages       []string     `yaml:"packages" validate:"dive,required"`
	External       []string     `yaml:"external" validate:"dive,required"`
}

// Profile represents the structure of a settings profile file.
type Profile struct {
	Settings map[string]string `yaml:"settings" validate:"dive,keys,oneof=os arch compiler compiler.version compiler.cppstd build_type,endkeys"`
}

// OptionValue is one default_options entry in declaration order.
type OptionValue struct {
	Key   string
	Value string
}

// OptionValues keeps default_options entries in the order they are written.
type OptionValues []OptionValue

// UnmarshalYAML implements yaml.Unmarshaler. Boolean values are canonicalized
// to True/False so equivalent spellings never conflict.
func (o *OptionValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrConfigParseFailed, "field", "default_options")
	}
	values := make(OptionValues, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return zerr.With(domain.ErrConfigParseFailed, "option", key.Value)
		}
		values = append(values, OptionValue{Key: key.Value, Value: canonicalValue(val)})
	}
	*o = values
	return nil
}

func canonicalValue(n *yaml.Node) string {
	if n.Tag == "!!bool" {
		var b bool
		if err := n.Decode(&b); err == nil {
			if b {
				return "True"
			}
			return "False"
		}
	}
	return n.Value
}

// newValidator returns a validator with the descriptor rules registered.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("package_name", func(fl validator.FieldLevel) bool {
		return validPackageNameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("settings_axes", func(fl validator.FieldLevel) bool {
		axes, ok := fl.Field().Interface().([]string)
		if !ok || len(axes) != len(domain.SettingsAxes) {
			return false
		}
		for _, axis := range domain.SettingsAxes {
			if !slices.Contains(axes, axis) {
				return false
			}
		}
		return true
	})
	return v
}

// validateStruct runs struct validation and maps the first failure to ErrConfigInvalid.
func validateStruct(v *validator.Validate, s any, file string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "file", file)
	}

	fe := fieldErrs[0]
	out := zerr.With(domain.ErrConfigInvalid, "file", file)
	out = zerr.With(out, "field", fe.Namespace())
	out = zerr.With(out, "rule", fe.Tag())
	if fe.Value() != nil {
		if s, ok := fe.Value().(string); ok && s != "" {
			out = zerr.With(out, "value", s)
		}
	}
	return out
}
