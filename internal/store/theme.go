package store

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
)

const ThemeKey = "theme-storage"

type ThemeState struct {
	IsDarkMode bool `json:"isDarkMode"`
}

type ThemeStore struct {
	*Persisted[ThemeState]
}

func NewThemeStore(p persist.Persister, log *slog.Logger) *ThemeStore {
	return &ThemeStore{newPersisted(ThemeKey, ThemeState{}, p, log)}
}

func (s *ThemeStore) IsDarkMode() bool {
	return s.Get().IsDarkMode
}

func (s *ThemeStore) ToggleTheme(ctx context.Context) error {
	return s.mutate(ctx, func(st ThemeState) (ThemeState, bool) {
		st.IsDarkMode = !st.IsDarkMode
		return st, true
	})
}

func (s *ThemeStore) SetDarkMode(ctx context.Context, dark bool) error {
	return s.mutate(ctx, func(st ThemeState) (ThemeState, bool) {
		if st.IsDarkMode == dark {
			return st, false
		}
		st.IsDarkMode = dark
		return st, true
	})
}
