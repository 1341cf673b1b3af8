package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess(t *testing.T) {
	tests := map[string]string{
		"  Côte d'Ivoire!! ":    "cote d ivoire",
		"São Tomé and Príncipe": "sao tome and principe",
		"KOREA, SOUTH":          "korea south",
		"":                      "",
		"---":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Process(in), "Process(%q)", in)
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("japan", "japan"))
	assert.Equal(t, 80, Ratio("japn", "japan"))
	assert.Equal(t, 0, Ratio("", "japan"))
	assert.Equal(t, 0, Ratio("", ""))
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100, PartialRatio("york", "new york"))
	assert.Equal(t, 100, PartialRatio("new york", "york"))
	assert.Equal(t, 0, PartialRatio("", "york"))
}

func TestTokenRatios(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("states united", "united states"))
	assert.Equal(t, 100, TokenSetRatio("united states of america", "america united states"))
}

func TestWRatio(t *testing.T) {
	assert.Equal(t, 80, WRatio("Japn", "Japan"))
	assert.Equal(t, 100, WRatio("JAPAN!", "japan"))
	assert.GreaterOrEqual(t, WRatio("States United", "United States"), 95)
	assert.Equal(t, 100, WRatio("cote d'ivoire", "Côte d'Ivoire"))
	assert.Less(t, WRatio("xyz", "Japan"), 80)
	assert.Equal(t, 0, WRatio("", "Japan"))
	assert.Equal(t, 0, WRatio("!!!", "Japan"))
}

func TestWRatio_Bounds(t *testing.T) {
	inputs := []string{"a", "Japan", "United Kingdom", "Bosnia And Herzegovina", "x y z", "Ñ"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := WRatio(a, b)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
			assert.Equal(t, s, WRatio(b, a), "WRatio should be symmetric for %q/%q", a, b)
		}
	}
}

func TestExtractOne(t *testing.T) {
	m, ok := ExtractOne("Germny", []string{"France", "Germany", "Guernsey"})
	require.True(t, ok)
	assert.Equal(t, "Germany", m.Choice)
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, 86, m.Score)
}

func TestExtractOne_TieGoesToFirst(t *testing.T) {
	m, ok := ExtractOne("chad", []string{"CHAD", "Chad", "Chile"})
	require.True(t, ok)
	assert.Equal(t, "CHAD", m.Choice)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, 100, m.Score)
}

func TestExtractOne_NoChoices(t *testing.T) {
	_, ok := ExtractOne("chad", nil)
	assert.False(t, ok)
}
