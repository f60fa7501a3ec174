// Package layout computes the source, build and generator directories of packages.
package layout

import (
	"context"
	"path/filepath"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Resolve computes the layout of desc rooted at root for the given settings.
// It has no side effects: no directory is created and no state is kept.
func Resolve(desc *domain.Descriptor, settings domain.Settings, root string) (domain.Layout, error) {
	bt, err := domain.ParseBuildType(string(settings.BuildType))
	if err != nil {
		return domain.Layout{}, zerr.With(err, "package", desc.Name().String())
	}

	source, err := filepath.Abs(root)
	if err != nil {
		return domain.Layout{}, zerr.With(zerr.Wrap(err, "failed to resolve package folder"), "package", desc.Name().String())
	}

	base := source
	if desc.Placement() == domain.PlacementParent {
		base = filepath.Dir(source)
	}
	build := filepath.Join(base, domain.BuildDirName(bt))

	return domain.Layout{
		SourceDir:     source,
		BuildDir:      build,
		GeneratorsDir: filepath.Join(build, domain.GeneratorsDirName),
	}, nil
}

// ResolveAll resolves the layout of every package in g. Packages are resolved
// concurrently. Two packages may share a build directory only when one of them
// depends on the other, so their builds never overlap.
func ResolveAll(ctx context.Context, g *domain.Graph, settings domain.Settings) (map[string]domain.Layout, error) {
	var (
		mu      sync.Mutex
		layouts = make(map[string]domain.Layout, g.Count())
	)

	eg, _ := errgroup.WithContext(ctx)
	for desc := range g.Walk() {
		eg.Go(func() error {
			l, err := Resolve(desc, desc.ApplySettings(settings), desc.Dir())
			if err != nil {
				return err
			}
			mu.Lock()
			layouts[desc.Name().String()] = l
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := checkCollisions(g, layouts); err != nil {
		return nil, err
	}
	return layouts, nil
}

func checkCollisions(g *domain.Graph, layouts map[string]domain.Layout) error {
	owners := make(map[string][]domain.InternedString)
	for _, name := range g.BuildOrder() {
		dir := layouts[name.String()].BuildDir
		for _, other := range owners[dir] {
			if !g.Reaches(name, other) && !g.Reaches(other, name) {
				err := zerr.With(domain.ErrBuildDirCollision, "build_dir", dir)
				err = zerr.With(err, "package", name.String())
				return zerr.With(err, "other", other.String())
			}
		}
		owners[dir] = append(owners[dir], name)
	}
	return nil
}
