package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/backend/internal/models"
)

func TestSearchCaseInsensitive(t *testing.T) {
	notes := []models.Note{
		{Title: "Linear Algebra", Content: "matrices"},
		{Title: "Chemistry", Content: "Organic reactions"},
		{Title: "History", Content: "The industrial revolution", Tags: []string{"algebra"}},
	}

	got := Search(notes, "ALGEBRA", func(n models.Note) []string { return n.SearchFields() })
	require.Len(t, got, 2)
	require.Equal(t, "Linear Algebra", got[0].Title)
	require.Equal(t, "History", got[1].Title)
}

func TestSearchEmptyQueryKeepsAll(t *testing.T) {
	notes := []models.Note{{Title: "a"}, {Title: "b"}}
	require.Len(t, Search(notes, "   ", func(n models.Note) []string { return n.SearchFields() }), 2)
}

func TestSearchNoMatches(t *testing.T) {
	notes := []models.Note{{Title: "a"}}
	require.Empty(t, Search(notes, "zzz", func(n models.Note) []string { return n.SearchFields() }))
}

func TestPinnedFirstIsStable(t *testing.T) {
	notes := []models.Note{
		{Title: "first"},
		{Title: "second", IsPinned: true},
		{Title: "third"},
	}

	got := PinnedFirst(notes, func(n models.Note) bool { return n.IsPinned })
	require.Equal(t, "second", got[0].Title)
	require.Equal(t, "first", got[1].Title)
	require.Equal(t, "third", got[2].Title)

	// Input order is untouched.
	require.Equal(t, "first", notes[0].Title)
}
