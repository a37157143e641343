package service

import (
	"context"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"go.opentelemetry.io/otel/attribute"
)

// CardRegistry owns the profile's payment cards and their freeze state.
type CardRegistry struct {
	base
	profiles ProfileStore
}

// NewCardRegistry builds a card registry over profiles.
func NewCardRegistry(profiles ProfileStore, opts ...Option) *CardRegistry {
	return &CardRegistry{base: newBase(opts), profiles: profiles}
}

// Cards lists the profile's cards.
func (r *CardRegistry) Cards(ctx context.Context) (cards []domain.Card, err error) {
	ctx, finish := r.observe(ctx, "cards.list")
	defer func() { finish(err) }()

	profile, err := r.profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return profile.Cards, nil
}

// ToggleFreeze flips the frozen flag on one card. It toggles; calling it
// twice restores the original state.
func (r *CardRegistry) ToggleFreeze(ctx context.Context, cardID string) (card domain.Card, err error) {
	ctx, finish := r.observe(ctx, "cards.toggle_freeze", attribute.String("demobank.card_id", cardID))
	defer func() { finish(err) }()

	_, err = r.profiles.MutateProfile(ctx, func(p domain.UserProfile) (domain.UserProfile, error) {
		next, toggled, err := domain.ToggleCardFreeze(p, cardID)
		if err != nil {
			return domain.UserProfile{}, err
		}
		card = toggled
		return next, nil
	})
	if err != nil {
		return domain.Card{}, err
	}

	r.logger.Info().Str("event", "card_freeze_toggled").Str("card_id", card.ID).Bool("frozen", card.IsFrozen).Msg("card updated")
	return card, nil
}
