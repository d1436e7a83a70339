package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
	"github.com/google/uuid"
)

const ProfileKey = "user-storage"

var (
	ErrNoProfile   = errors.New("store: no user profile")
	ErrStepUnknown = errors.New("store: journey step not found")
)

type ProfileState struct {
	User *models.UserProfile `json:"user"`
}

type ProfileStore struct {
	*Persisted[ProfileState]
}

func NewProfileStore(p persist.Persister, log *slog.Logger) *ProfileStore {
	return &ProfileStore{newPersisted(ProfileKey, ProfileState{}, p, log)}
}

// Profile returns a copy of the current profile, or nil when none is set.
func (s *ProfileStore) Profile() *models.UserProfile {
	u := s.Get().User
	if u == nil {
		return nil
	}
	cp := u.Clone()
	return &cp
}

func (s *ProfileStore) HasCompletedOnboarding() bool {
	u := s.Get().User
	return u != nil && u.OnboardingCompleted
}

// SetProfile stores a copy of p; later edits to the caller's lists do not
// reach the store.
func (s *ProfileStore) SetProfile(ctx context.Context, p models.UserProfile) error {
	p = p.Clone()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return s.mutate(ctx, func(st ProfileState) (ProfileState, bool) {
		st.User = &p
		return st, true
	})
}

func (s *ProfileStore) ClearProfile(ctx context.Context) error {
	return s.mutate(ctx, func(st ProfileState) (ProfileState, bool) {
		if st.User == nil {
			return st, false
		}
		st.User = nil
		return st, true
	})
}

func (s *ProfileStore) CompleteOnboarding(ctx context.Context) error {
	return s.update(ctx, func(u *models.UserProfile) error {
		u.OnboardingCompleted = true
		return nil
	})
}

func (s *ProfileStore) AddTestScore(ctx context.Context, score models.TestScore) error {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	return s.update(ctx, func(u *models.UserProfile) error {
		u.TestScores = append(slices.Clone(u.TestScores), score)
		return nil
	})
}

func (s *ProfileStore) AddUniversity(ctx context.Context, uni models.University) error {
	if uni.ID == "" {
		uni.ID = uuid.NewString()
	}
	return s.update(ctx, func(u *models.UserProfile) error {
		u.Universities = append(slices.Clone(u.Universities), uni)
		return nil
	})
}

func (s *ProfileStore) AddMemory(ctx context.Context, m models.Memory) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return s.update(ctx, func(u *models.UserProfile) error {
		u.Memories = append(slices.Clone(u.Memories), m)
		return nil
	})
}

// UpdateJourneyProgress marks a journey step complete or incomplete.
func (s *ProfileStore) UpdateJourneyProgress(ctx context.Context, stepID string, completed bool) error {
	return s.update(ctx, func(u *models.UserProfile) error {
		i := slices.IndexFunc(u.JourneyProgress, func(st models.JourneyStep) bool { return st.ID == stepID })
		if i < 0 {
			return ErrStepUnknown
		}
		steps := slices.Clone(u.JourneyProgress)
		steps[i].Completed = completed
		steps[i].CompletedAt = ""
		if completed {
			steps[i].CompletedAt = time.Now().UTC().Format(time.RFC3339)
		}
		u.JourneyProgress = steps
		return nil
	})
}

// update runs edit on a copy of the profile. Edit errors abort the mutation.
func (s *ProfileStore) update(ctx context.Context, edit func(*models.UserProfile) error) error {
	var editErr error
	err := s.mutate(ctx, func(st ProfileState) (ProfileState, bool) {
		if st.User == nil {
			editErr = ErrNoProfile
			return st, false
		}
		cp := *st.User
		if editErr = edit(&cp); editErr != nil {
			return st, false
		}
		st.User = &cp
		return st, true
	})
	if editErr != nil {
		return editErr
	}
	return err
}
