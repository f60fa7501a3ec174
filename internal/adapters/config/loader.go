// Package config provides the descriptor and profile loaders for rig.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using rig.yaml files.
type Loader struct {
	Logger   ports.Logger
	FS       FileSystem
	validate *validator.Validate
}

// NewLoader creates a new Loader with the given logger reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys, validate: newValidator()}
}

// Mode represents the configuration mode of a workspace.
type Mode string

const (
	// ModeWorkspace indicates a root descriptor listing nested packages.
	ModeWorkspace Mode = "workspace"
	// ModeStandalone indicates a single package.
	ModeStandalone Mode = "standalone"
)

var validPackageNameRegex = regexp.MustCompile("^[a-zA-Z0-9_.+-]+$")

// Load finds the workspace containing cwd and returns its unvalidated package graph.
func (l *Loader) Load(cwd string) (*domain.Graph, error) {
	rootDir, mode, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	rootFile := filepath.Join(rootDir, domain.DescriptorFileName)
	var rootDTO Descriptor
	if err := l.readDescriptor(rootFile, &rootDTO); err != nil {
		return nil, err
	}

	g := domain.NewGraph()
	g.SetRoot(rootDir)

	rootDesc, err := toDomain(&rootDTO, rootDir)
	if err != nil {
		return nil, zerr.With(err, "file", rootFile)
	}
	if err := g.AddPackage(rootDesc); err != nil {
		return nil, err
	}

	for _, ref := range rootDTO.External {
		req, err := domain.ParseRequirement(ref)
		if err != nil {
			return nil, zerr.With(err, "file", rootFile)
		}
		if err := g.AddExternal(req); err != nil {
			return nil, err
		}
	}

	if mode == ModeStandalone {
		return g, nil
	}

	packagePaths, err := l.resolvePackagePaths(rootDir, rootDTO.Packages)
	if err != nil {
		return nil, err
	}
	if err := l.processPackages(g, rootDir, packagePaths); err != nil {
		return nil, err
	}

	return g, nil
}

// DiscoverRoot walks up from cwd to find the workspace root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	rootDir, _, err := l.findConfiguration(cwd)
	return rootDir, err
}

// findConfiguration returns the top-most directory whose rig.yaml lists packages,
// else the nearest directory holding a rig.yaml.
func (l *Loader) findConfiguration(cwd string) (string, Mode, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	currentDir := absCwd
	var standaloneCandidate, workspaceCandidate string

	for {
		descPath := filepath.Join(currentDir, domain.DescriptorFileName)
		if _, err := l.FS.Stat(descPath); err == nil {
			if standaloneCandidate == "" {
				standaloneCandidate = currentDir
			}
			var dto Descriptor
			if err := readAndUnmarshalYAML(l.FS, descPath, &dto); err != nil {
				return "", "", err
			}
			if len(dto.Packages) > 0 {
				workspaceCandidate = currentDir
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	if workspaceCandidate != "" {
		return workspaceCandidate, ModeWorkspace, nil
	}
	if standaloneCandidate != "" {
		return standaloneCandidate, ModeStandalone, nil
	}

	return "", "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) resolvePackagePaths(rootDir string, patterns []string) ([]string, error) {
	// Several globs may match the same directory.
	packagePaths := make(map[string]struct{})

	for _, pattern := range patterns {
		absPattern := filepath.Join(rootDir, pattern)

		matches, err := l.FS.Glob(absPattern)
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}

		for _, match := range matches {
			if filepath.Clean(match) == rootDir {
				continue
			}
			packagePaths[match] = struct{}{}
		}
	}

	sortedPaths := make([]string, 0, len(packagePaths))
	for p := range packagePaths {
		sortedPaths = append(sortedPaths, p)
	}
	slices.Sort(sortedPaths)

	return sortedPaths, nil
}

// processPackages parses the nested descriptors concurrently and adds them to
// the graph in path order.
func (l *Loader) processPackages(g *domain.Graph, rootDir string, packagePaths []string) error {
	descs := make([]*domain.Descriptor, len(packagePaths))

	var eg errgroup.Group
	for i, packagePath := range packagePaths {
		eg.Go(func() error {
			d, err := l.processPackage(rootDir, packagePath)
			if err != nil {
				return err
			}
			descs[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, d := range descs {
		if d == nil {
			continue
		}
		if err := g.AddPackage(d); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) processPackage(rootDir, packagePath string) (*domain.Descriptor, error) {
	relPath, _ := filepath.Rel(rootDir, packagePath)

	// Glob returns files too.
	info, err := l.FS.Stat(packagePath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	descPath := filepath.Join(packagePath, domain.DescriptorFileName)
	if _, statErr := l.FS.Stat(descPath); statErr != nil {
		l.Logger.Warn(fmt.Sprintf("%s missing in package %s, skipping", domain.DescriptorFileName, relPath))
		return nil, nil
	}

	var dto Descriptor
	if err := l.readDescriptor(descPath, &dto); err != nil {
		return nil, zerr.With(err, "directory", relPath)
	}

	if dto.Name == "" {
		return nil, zerr.With(zerr.With(domain.ErrConfigInvalid, "field", "Descriptor.Name"), "directory", relPath)
	}
	if len(dto.Packages) > 0 || len(dto.External) > 0 {
		l.Logger.Warn(fmt.Sprintf("'packages' and 'external' defined in %s are ignored outside the workspace root", relPath))
	}

	d, err := toDomain(&dto, packagePath)
	if err != nil {
		return nil, zerr.With(err, "directory", relPath)
	}
	return d, nil
}

func (l *Loader) readDescriptor(path string, dto *Descriptor) error {
	if err := readAndUnmarshalYAML(l.FS, path, dto); err != nil {
		return err
	}
	return validateStruct(l.validate, dto, path)
}

// toDomain converts a parsed descriptor into a domain.Descriptor rooted at dir.
func toDomain(dto *Descriptor, dir string) (*domain.Descriptor, error) {
	placement, err := domain.ParsePlacement(dto.Layout)
	if err != nil {
		return nil, err
	}

	declaring := dto.Name
	if declaring == "" {
		declaring = domain.RootPackageName
	}

	rules := make([]domain.OptionRule, 0, len(dto.DefaultOptions))
	for _, opt := range dto.DefaultOptions {
		selector, option, err := domain.ParseOptionKey(opt.Key, declaring)
		if err != nil {
			return nil, err
		}
		rules = append(rules, domain.OptionRule{Selector: selector, Option: option, Value: opt.Value})
	}

	return domain.NewDescriptor(domain.DescriptorSpec{
		Name:             dto.Name,
		Version:          dto.Version,
		Dir:              dir,
		Generators:       dto.Generators,
		Requires:         dto.Requires,
		ExportsSources:   dto.ExportsSources,
		DefaultOptions:   rules,
		LanguageStandard: dto.CppStd,
		Placement:        placement,
	})
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](fsys FileSystem, configPath string, target *T) error {
	configFile, err := fsys.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "file", configPath)
	}

	return nil
}
