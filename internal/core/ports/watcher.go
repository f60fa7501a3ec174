package ports

import (
	"context"
	"iter"
)

// ChangeKind classifies a change seen by a Watcher.
type ChangeKind uint8

const (
	// ChangeCreated is a new file or directory.
	ChangeCreated ChangeKind = iota
	// ChangeModified is a write to an existing file.
	ChangeModified
	// ChangeRemoved is a deleted file or directory.
	ChangeRemoved
	// ChangeRenamed is a file or directory moved away from Path.
	ChangeRenamed
)

// WatchEvent is one change below the watched workspace.
type WatchEvent struct {
	Path string
	Kind ChangeKind
}

// Watcher reports changes below a workspace root so packages can be rebuilt.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root and every directory below it that is not ignored,
	// including directories created later.
	Start(ctx context.Context, root string) error
	// Stop releases the watcher. Events ends once it returns.
	Stop() error
	Events() iter.Seq[WatchEvent]
}
