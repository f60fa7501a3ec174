package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the build directories of every package and build type.
	All bool
}

// Clean removes the build info store and, with All, the build directories.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return err
	}

	var errs error

	a.logger.Info("removing build info store...")
	if err := a.store.Clear(root); err != nil {
		errs = errors.Join(errs, err)
	} else {
		a.logger.Info("removed build info store")
	}

	if !options.All {
		return errs
	}

	graph, err := a.loadGraph()
	if err != nil {
		return errors.Join(errs, err)
	}
	for _, dir := range buildDirs(graph) {
		rel, relErr := filepath.Rel(root, dir)
		if relErr != nil {
			rel = dir
		}
		a.logger.Info(fmt.Sprintf("removing %s...", rel))
		if err := os.RemoveAll(dir); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove build directory"), "directory", dir))
		}
	}
	return errs
}

// buildDirs lists the existing build directories of every package, for any
// build type, sorted and deduplicated.
func buildDirs(graph *domain.Graph) []string {
	seen := make(map[string]bool)
	for desc := range graph.Walk() {
		base := desc.Dir()
		if desc.Placement() == domain.PlacementParent {
			base = filepath.Dir(base)
		}
		for _, bt := range domain.BuildTypes {
			dir := filepath.Join(base, domain.BuildDirName(bt))
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				seen[dir] = true
			}
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs
}
