package titlematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBest_ExactMatch(t *testing.T) {
	m := Best("the matrix", []string{"Matrix Reloaded", "The Matrix", "Animatrix"})

	assert.Equal(t, 1, m.Index)
	assert.Equal(t, "The Matrix", m.Title)
	assert.InDelta(t, 1.0, m.Score, 0.001)
	assert.Equal(t, High, m.Confidence)
}

func TestBest_PrefersMatchingSequelNumber(t *testing.T) {
	m := Best("Brother 2", []string{"Brother", "Brother 2"})

	assert.Equal(t, 1, m.Index)
	assert.Equal(t, "Brother 2", m.Title)
}

func TestBest_RomanNumeralEqualsDigit(t *testing.T) {
	m := Best("Rocky 2", []string{"Rocky", "Rocky II", "Rocky III"})

	assert.Equal(t, 1, m.Index)
	assert.Equal(t, High, m.Confidence)
}

func TestBest_NoMatch(t *testing.T) {
	m := Best("Interstellar", []string{"Amelie", "Jaws"})

	assert.Equal(t, -1, m.Index)
	assert.Equal(t, None, m.Confidence)
	assert.Empty(t, m.Title)
}

func TestBest_EmptyInputs(t *testing.T) {
	assert.Equal(t, -1, Best("Heat", nil).Index)
	assert.Equal(t, -1, Best("", []string{"Heat"}).Index)
	assert.Equal(t, -1, Best("...", []string{"Heat"}).Index)
}

func TestBest_TieKeepsFirst(t *testing.T) {
	m := Best("Heat", []string{"Heat", "Heat"})
	assert.Equal(t, 0, m.Index)
}

func TestConfidence_String(t *testing.T) {
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "medium", Medium.String())
	assert.Equal(t, "low", Low.String())
	assert.Equal(t, "none", None.String())
}
