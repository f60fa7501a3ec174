package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes the input hash of a build unit.
type Hasher struct {
	resolver *Resolver
}

// NewHasher creates a new Hasher.
func NewHasher(resolver *Resolver) *Hasher {
	return &Hasher{resolver: resolver}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the package walk
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return digest.Sum64(), nil
}

// ComputeInputHash hashes the descriptor, the effective settings and options,
// the CMake generator and program, the dependency hashes and the content of
// every exported source file.
// Absolute paths never enter the hash, so moving a workspace keeps it stable.
func (h *Hasher) ComputeInputHash(unit domain.BuildUnit, depHashes []string) (string, error) {
	digest := xxhash.New()

	hashDescriptor(digest, unit.Descriptor)
	hashPairs(digest, unit.Settings.Map())
	hashPairs(digest, unit.Options)
	writeField(digest, unit.Generator)
	writeField(digest, unit.Program)

	sortedDeps := slices.Sorted(slices.Values(depHashes))
	for _, dep := range sortedDeps {
		writeField(digest, dep)
	}
	endSection(digest)

	dir := unit.Descriptor.Dir()
	files, err := h.resolver.ResolveSources(dir, unit.Descriptor.ExportsSources())
	if err != nil {
		return "", zerr.With(err, "package", unit.Name())
	}
	for _, rel := range files {
		sum, err := h.ComputeFileHash(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", zerr.With(err, "package", unit.Name())
		}
		writeField(digest, rel)
		_ = binary.Write(digest, binary.LittleEndian, sum)
	}

	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func hashDescriptor(digest *xxhash.Digest, d *domain.Descriptor) {
	writeField(digest, d.Name().String())
	writeField(digest, d.Version())

	for _, g := range d.Generators() {
		writeField(digest, g)
	}
	endSection(digest)

	for _, req := range d.Requires() {
		writeField(digest, req.String())
	}
	endSection(digest)

	writeField(digest, d.LanguageStandard())
	writeField(digest, string(d.Placement()))
}

// hashPairs writes "key=value" entries in key order.
func hashPairs(digest *xxhash.Digest, pairs map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(pairs)) {
		writeField(digest, k+"="+pairs[k])
	}
	endSection(digest)
}

func writeField(digest *xxhash.Digest, s string) {
	_, _ = digest.WriteString(s)
	_, _ = digest.Write([]byte{0})
}

func endSection(digest *xxhash.Digest) {
	_, _ = digest.Write([]byte{0})
}
