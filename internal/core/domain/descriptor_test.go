package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
)

func TestNewDescriptor_Defaults(t *testing.T) {
	d, err := domain.NewDescriptor(domain.DescriptorSpec{Version: "0.1", Dir: "/ws"})
	require.NoError(t, err)

	assert.Equal(t, "root", d.Name().String())
	assert.True(t, d.Anonymous())
	assert.Equal(t, "20", d.LanguageStandard())
	assert.Equal(t, domain.PlacementSelf, d.Placement())
	assert.Equal(t, []string{domain.GeneratorCMakeToolchain}, d.Generators())
	assert.Equal(t, "root/0.1", d.Ref())
	assert.Equal(t, "/ws", d.Dir())
}

func TestNewDescriptor_Requires(t *testing.T) {
	tests := []struct {
		name        string
		requires    []string
		errContains string
	}{
		{name: "valid", requires: []string{"core/0.1", "boost/1.84.0"}},
		{name: "missing version", requires: []string{"core"}, errContains: domain.ErrInvalidRequirement.Error()},
		{name: "extra segment", requires: []string{"core/0.1/x"}, errContains: domain.ErrInvalidRequirement.Error()},
		{name: "duplicate", requires: []string{"core/0.1", "core/0.2"}, errContains: domain.ErrDuplicateRequirement.Error()},
		{name: "self", requires: []string{"cli/1.0"}, errContains: domain.ErrSelfRequirement.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := domain.NewDescriptor(domain.DescriptorSpec{Name: "cli", Version: "1.0", Requires: tt.requires})
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			reqs := d.Requires()
			require.Len(t, reqs, 2)
			assert.Equal(t, "core/0.1", reqs[0].String())
			assert.Equal(t, "boost/1.84.0", reqs[1].String())
		})
	}
}

func TestNewDescriptor_DefaultOptionsLastWins(t *testing.T) {
	d, err := domain.NewDescriptor(domain.DescriptorSpec{
		Name:    "cli",
		Version: "1.0",
		DefaultOptions: []domain.OptionRule{
			{Selector: "*", Option: "shared", Value: "False"},
			{Selector: "cli", Option: "fPIC", Value: "True"},
			{Selector: "*", Option: "shared", Value: "True"},
		},
	})
	require.NoError(t, err)

	rules := d.DefaultOptions()
	require.Len(t, rules, 2)
	assert.Equal(t, domain.OptionRule{Selector: "*", Option: "shared", Value: "True", Source: "cli"}, rules[0])
	assert.Equal(t, "fPIC", rules[1].Option)
}

func TestDescriptor_AccessorsReturnCopies(t *testing.T) {
	d, err := domain.NewDescriptor(domain.DescriptorSpec{
		Name:           "cli",
		Version:        "1.0",
		ExportsSources: []string{"CMakeLists.txt", "src/*"},
	})
	require.NoError(t, err)

	src := d.ExportsSources()
	src[0] = "mutated"
	assert.Equal(t, "CMakeLists.txt", d.ExportsSources()[0])
}

func TestDescriptor_ApplySettings(t *testing.T) {
	d, err := domain.NewDescriptor(domain.DescriptorSpec{Name: "cli", Version: "1.0", LanguageStandard: "17"})
	require.NoError(t, err)

	env := domain.Settings{OS: "Linux", BuildType: domain.BuildTypeRelease, CppStd: "gnu14"}
	got := d.ApplySettings(env)

	assert.Equal(t, "17", got.CppStd)
	assert.Equal(t, "gnu14", env.CppStd, "input settings must not change")
	assert.Equal(t, env.OS, got.OS)
	assert.Equal(t, got, d.ApplySettings(env))
}

func TestParsePlacement(t *testing.T) {
	p, err := domain.ParsePlacement("")
	require.NoError(t, err)
	assert.Equal(t, domain.PlacementSelf, p)

	p, err = domain.ParsePlacement("parent")
	require.NoError(t, err)
	assert.Equal(t, domain.PlacementParent, p)

	_, err = domain.ParsePlacement("sibling")
	assert.ErrorContains(t, err, domain.ErrInvalidPlacement.Error())
}

func TestParseOptionKey(t *testing.T) {
	sel, opt, err := domain.ParseOptionKey("*:shared", "root")
	require.NoError(t, err)
	assert.Equal(t, "*", sel)
	assert.Equal(t, "shared", opt)

	sel, opt, err = domain.ParseOptionKey("fPIC", "cli")
	require.NoError(t, err)
	assert.Equal(t, "cli", sel)
	assert.Equal(t, "fPIC", opt)

	_, _, err = domain.ParseOptionKey(":shared", "cli")
	assert.ErrorContains(t, err, domain.ErrInvalidOptionRule.Error())

	_, _, err = domain.ParseOptionKey("cli:", "cli")
	assert.ErrorContains(t, err, domain.ErrInvalidOptionRule.Error())
}
