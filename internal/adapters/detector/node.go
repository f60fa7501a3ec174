package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/domain"
)

// NodeID is the unique identifier for the settings detector Graft node.
const NodeID graft.ID = "adapter.detector"

// SettingsFunc supplies the detected platform settings.
type SettingsFunc func() domain.Settings

func init() {
	graft.Register(graft.Node[SettingsFunc]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (SettingsFunc, error) {
			return DetectSettings, nil
		},
	})
}
