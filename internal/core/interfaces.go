package core

import (
	"context"

	"github.com/steamlens/steamlens/internal/domain/model"
	"github.com/steamlens/steamlens/internal/steamid"
)

// This file contains the ports the service layer depends on.
// Implementations live in the upstream and data packages.

// ProfileAPI is the remote profile service.
type ProfileAPI interface {
	steamid.VanityResolver

	// FetchProfile returns the aggregated profile of a canonical Steam ID.
	FetchProfile(ctx context.Context, id string) (*model.Profile, error)
}
