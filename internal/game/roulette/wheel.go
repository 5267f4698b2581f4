// Package roulette implements the multiplayer roulette game: the wheel rules
// and the round state machine (join, bet, resolve).
package roulette

import "strconv"

// Color is the color of a wheel pocket.
type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Wheel layout and payout multipliers.
const (
	// WheelMax is the highest pocket number; pockets run 0..WheelMax.
	WheelMax = 36
	// ExactMultiplier is the payout multiplier for an exact-number bet.
	ExactMultiplier = 36
	// OutsideMultiplier is the payout multiplier for color, parity and
	// half-range bets.
	OutsideMultiplier = 2
)

// Category bet tokens.
const (
	ChoiceRed       = "red"
	ChoiceBlack     = "black"
	ChoiceEven      = "even"
	ChoiceOdd       = "odd"
	ChoiceFirstHalf = "1-18"
	ChoiceLastHalf  = "19-36"
)

// redNumbers is the fixed set of 18 red pockets; the remaining 18 non-zero
// pockets are black and 0 is green.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns the color of a pocket.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return ColorGreen
	case redNumbers[n]:
		return ColorRed
	default:
		return ColorBlack
	}
}

// parseExact interprets choice as an exact-number bet. Only the canonical
// decimal form of 0..36 counts, so "07" is not a valid choice.
func parseExact(choice string) (int, bool) {
	n, err := strconv.Atoi(choice)
	if err != nil || n < 0 || n > WheelMax {
		return 0, false
	}
	if strconv.Itoa(n) != choice {
		return 0, false
	}
	return n, true
}

// ValidChoice reports whether choice is a playable bet token: an exact number
// "0".."36", a color, a parity, or a half-range.
func ValidChoice(choice string) bool {
	if _, ok := parseExact(choice); ok {
		return true
	}
	switch choice {
	case ChoiceRed, ChoiceBlack, ChoiceEven, ChoiceOdd, ChoiceFirstHalf, ChoiceLastHalf:
		return true
	}
	return false
}

// Winnings returns the credited amount for a bet given the spin result:
// exact-number match pays bet*36, any matching category pays bet*2, anything
// else pays 0. Choice categories are mutually exclusive, so at most one rule
// applies.
func Winnings(choice string, result int, bet int64) int64 {
	if n, ok := parseExact(choice); ok {
		if n == result {
			return bet * ExactMultiplier
		}
		return 0
	}

	switch choice {
	case ChoiceRed:
		if ColorOf(result) == ColorRed {
			return bet * OutsideMultiplier
		}
	case ChoiceBlack:
		if ColorOf(result) == ColorBlack {
			return bet * OutsideMultiplier
		}
	case ChoiceEven:
		// 0 is neither even nor odd on the wheel
		if result != 0 && result%2 == 0 {
			return bet * OutsideMultiplier
		}
	case ChoiceOdd:
		if result%2 == 1 {
			return bet * OutsideMultiplier
		}
	case ChoiceFirstHalf:
		if result >= 1 && result <= 18 {
			return bet * OutsideMultiplier
		}
	case ChoiceLastHalf:
		if result >= 19 && result <= 36 {
			return bet * OutsideMultiplier
		}
	}
	return 0
}
