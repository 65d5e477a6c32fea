package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stackz/backend/internal/database/repository"
)

const (
	prefOnboardingCompleted = "onboarding_completed"
	prefUserGoals           = "user_goals"
)

// Preferences wraps the key/value store with the onboarding workflow.
type Preferences struct {
	Prefs *repository.PreferenceRepo
}

// OnboardingStatus reports whether first-run setup finished and which goals were picked.
type OnboardingStatus struct {
	IsCompleted bool     `json:"isCompleted"`
	Goals       []string `json:"goals"`
}

func (s *Preferences) OnboardingStatus(ctx context.Context) (OnboardingStatus, error) {
	status := OnboardingStatus{Goals: []string{}}

	val, ok, err := s.Prefs.Get(ctx, prefOnboardingCompleted)
	if err != nil {
		return status, err
	}
	status.IsCompleted = ok && val == "true"

	val, ok, err = s.Prefs.Get(ctx, prefUserGoals)
	if err != nil {
		return status, err
	}
	if ok {
		var goals []string
		if err := json.Unmarshal([]byte(val), &goals); err != nil {
			// corrupt goals blob falls back to empty, same as missing
			log.Warn().Err(err).Msg("discarding unreadable user goals")
		} else {
			status.Goals = goals
		}
	}
	return status, nil
}

func (s *Preferences) SaveGoals(ctx context.Context, goals []string) error {
	if goals == nil {
		goals = []string{}
	}
	raw, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	return s.Prefs.Set(ctx, prefUserGoals, string(raw))
}

func (s *Preferences) CompleteOnboarding(ctx context.Context) error {
	return s.Prefs.Set(ctx, prefOnboardingCompleted, "true")
}
