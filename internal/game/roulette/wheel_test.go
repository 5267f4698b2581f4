package roulette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		n        int
		expected Color
	}{
		{0, ColorGreen},
		{1, ColorRed},
		{2, ColorBlack},
		{10, ColorBlack},
		{17, ColorBlack},
		{18, ColorRed},
		{19, ColorRed},
		{20, ColorBlack},
		{29, ColorBlack},
		{30, ColorRed},
		{36, ColorRed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ColorOf(tt.n), "ColorOf(%d)", tt.n)
	}
}

func TestValidChoice(t *testing.T) {
	valid := []string{"0", "17", "36", "red", "black", "even", "odd", "1-18", "19-36"}
	for _, choice := range valid {
		assert.True(t, ValidChoice(choice), "choice %q should be valid", choice)
	}

	invalid := []string{"", "37", "-1", "07", "rouge", "green", "1 - 18", "Red", "10-20"}
	for _, choice := range invalid {
		assert.False(t, ValidChoice(choice), "choice %q should be invalid", choice)
	}
}

func TestWinnings(t *testing.T) {
	tests := []struct {
		name     string
		choice   string
		result   int
		bet      int64
		expected int64
	}{
		{"exact hit", "17", 17, 100, 3600},
		{"exact miss", "17", 16, 100, 0},
		{"exact zero hit", "0", 0, 50, 1800},
		{"red hit", "red", 1, 50, 100},
		{"red miss on black", "red", 10, 50, 0},
		{"red miss on zero", "red", 0, 50, 0},
		{"black hit", "black", 10, 50, 100},
		{"even hit", "even", 4, 25, 50},
		{"even excludes zero", "even", 0, 25, 0},
		{"odd hit", "odd", 9, 25, 50},
		{"odd miss", "odd", 8, 25, 0},
		{"first half hit", "1-18", 18, 40, 80},
		{"first half miss on zero", "1-18", 0, 40, 0},
		{"last half hit", "19-36", 19, 40, 80},
		{"last half miss", "19-36", 18, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Winnings(tt.choice, tt.result, tt.bet))
		})
	}
}

// Mirrors the documented play-through: 50 on red loses to 10 (black) and wins
// on 1 (red); 100 on exact 17 pays 3600 only on 17.
func TestWinningsScenarios(t *testing.T) {
	assert.Equal(t, int64(0), Winnings("red", 10, 50))
	assert.Equal(t, int64(100), Winnings("red", 1, 50))

	assert.Equal(t, int64(3600), Winnings("17", 17, 100))
	for result := 0; result <= WheelMax; result++ {
		if result == 17 {
			continue
		}
		assert.Equal(t, int64(0), Winnings("17", result, 100), "result %d", result)
	}
}
