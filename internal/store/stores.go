package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
)

// Stores groups the process-wide state containers so they can be injected
// together.
type Stores struct {
	Theme     *ThemeStore
	Documents *DocumentStore
	Profile   *ProfileStore
	AppState  *AppStateStore
}

func New(p persist.Persister, log *slog.Logger) *Stores {
	return &Stores{
		Theme:     NewThemeStore(p, log),
		Documents: NewDocumentStore(p, log),
		Profile:   NewProfileStore(p, log),
		AppState:  NewAppStateStore(),
	}
}

// HydrateAll loads every persisted store. A failing store does not stop the
// others; all failures are joined.
func (s *Stores) HydrateAll(ctx context.Context) error {
	return errors.Join(
		s.Theme.Hydrate(ctx),
		s.Documents.Hydrate(ctx),
		s.Profile.Hydrate(ctx),
	)
}

func (s *Stores) Hydrated() bool {
	return s.Theme.Hydrated() && s.Documents.Hydrated() && s.Profile.Hydrated()
}
