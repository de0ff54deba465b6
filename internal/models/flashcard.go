package models

// FlashcardDeck groups flashcards. CardCount is a denormalized counter
// maintained by the deck service; it can drift if the counter update
// fails after a card mutation succeeds.
type FlashcardDeck struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SubjectID   UUID   `json:"subjectId,omitempty"`
	CardCount   int    `json:"cardCount"`
	LastStudied int64  `json:"lastStudied,omitempty"`
}

// Kind returns the collection name for FlashcardDeck.
func (FlashcardDeck) Kind() string {
	return KindFlashcardDeck
}

// Flashcard is a single front/back card belonging to a deck.
type Flashcard struct {
	Base
	DeckID UUID   `json:"deckId"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// Kind returns the collection name for Flashcard.
func (Flashcard) Kind() string {
	return KindFlashcard
}
