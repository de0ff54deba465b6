package controller

import (
	"context"
	"time"

	"github.com/studyhub-app/backend/internal/entity"
	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/models"
	"github.com/studyhub-app/backend/internal/store"
)

// DeckService coordinates the two-step card mutations: the card write
// happens first, then the deck's denormalized cardCount is patched.
// When the second step fails the card mutation stands and the call
// reports COUNTER_STALE; Recount repairs the drift.
type DeckService struct {
	decks *entity.Client[models.FlashcardDeck]
	cards *entity.Client[models.Flashcard]
	now   func() time.Time
}

// NewDeckService builds a deck service over any record store.
func NewDeckService(st store.Store) *DeckService {
	return &DeckService{
		decks: entity.NewClient[models.FlashcardDeck](st),
		cards: entity.NewClient[models.Flashcard](st),
		now:   time.Now,
	}
}

// Decks exposes the underlying deck client.
func (s *DeckService) Decks() *entity.Client[models.FlashcardDeck] {
	return s.decks
}

// Cards exposes the underlying card client.
func (s *DeckService) Cards() *entity.Client[models.Flashcard] {
	return s.cards
}

// AddCard creates a card in the deck and increments its cardCount.
// The card is returned even when the counter update fails; in that
// case the error carries COUNTER_STALE.
func (s *DeckService) AddCard(ctx context.Context, deckID, front, back string) (models.Flashcard, error) {
	card, err := s.cards.Create(ctx, models.Flashcard{
		DeckID: models.UUID(deckID),
		Front:  front,
		Back:   back,
	})
	if err != nil {
		return models.Flashcard{}, err
	}

	if err := s.bumpCount(ctx, deckID, +1); err != nil {
		return card, err
	}
	return card, nil
}

// DeleteCard removes a card and decrements the deck's cardCount. The
// card stays deleted even when the counter update fails.
func (s *DeckService) DeleteCard(ctx context.Context, deckID, cardID string) error {
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return err
	}
	return s.bumpCount(ctx, deckID, -1)
}

// RecordStudy stamps the deck's lastStudied timestamp.
func (s *DeckService) RecordStudy(ctx context.Context, deckID string) error {
	_, err := s.decks.Update(ctx, deckID, map[string]interface{}{
		"lastStudied": s.now().Unix(),
	})
	return err
}

// Recount recomputes cardCount from the cards that actually exist and
// writes it back, repairing any drift.
func (s *DeckService) Recount(ctx context.Context, deckID string) (int, error) {
	cards, err := s.cards.Filter(ctx, map[string]interface{}{"deckId": deckID}, "", 0)
	if err != nil {
		return 0, err
	}

	if _, err := s.decks.Update(ctx, deckID, map[string]interface{}{
		"cardCount": len(cards),
	}); err != nil {
		return 0, err
	}
	return len(cards), nil
}

func (s *DeckService) bumpCount(ctx context.Context, deckID string, delta int) error {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return errors.Wrap(errors.ErrCounterStale, "card written but deck counter not updated", err)
	}

	count := deck.CardCount + delta
	if count < 0 {
		count = 0
	}
	if _, err := s.decks.Update(ctx, deckID, map[string]interface{}{
		"cardCount": count,
	}); err != nil {
		return errors.Wrap(errors.ErrCounterStale, "card written but deck counter not updated", err)
	}
	return nil
}
