// Package cas stores the build info records that let rig skip unchanged packages.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore with one JSON file per package and build type
// under <root>/.rig/store.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the record for pkg and bt, or nil when none exists.
func (s *Store) Get(root, pkg string, bt domain.BuildType) (*domain.BuildInfo, error) {
	filename := recordPath(root, domain.BuildInfoKey(pkg, bt))
	//nolint:gosec // path is the store directory joined with a hex digest
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "package", pkg)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "package", pkg)
	}
	return &info, nil
}

// Put writes the record, replacing any previous one for the same package and build type.
// The file is renamed into place so a concurrent Get never sees a partial record.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := recordPath(root, info.Key())
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), ".record-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Clear removes the store directory under root.
func (s *Store) Clear(root string) error {
	if err := os.RemoveAll(domain.DefaultStorePath(root)); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func recordPath(root, key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(domain.DefaultStorePath(root), hex.EncodeToString(sum[:])+".json")
}
