package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/detector"
	"go.trai.ch/rig/internal/adapters/logger"
	"go.trai.ch/rig/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the descriptor loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ProfileNodeID is the unique identifier for the profile loader Graft node.
	ProfileNodeID graft.ID = "adapter.profile_loader"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.ProfileLoader]{
		ID:        ProfileNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.ProfileLoader, error) {
			detect, err := graft.Dep[detector.SettingsFunc](ctx)
			if err != nil {
				return nil, err
			}
			return NewProfileLoader(NewOSFS(), detect), nil
		},
	})
}
