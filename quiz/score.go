// ABOUTME: Score normalization for result bars: scalar derivation, bar width, and displayed percentage.
// ABOUTME: The width only scales a bar; the displayed percentage is the ceiling of the raw score.
package quiz

import (
	"math"

	"github.com/kjosturett/kjosturett/site"
)

// Scalar derives the party bar scalar from the first party's score, so the
// top party's bar spans the full width. With no parties, or a first score
// that is not positive, the scalar is 1.
func Scalar(parties []site.Party) float64 {
	if len(parties) == 0 || !(parties[0].Score > 0) {
		return 1
	}
	return parties[0].Score / 100
}

// NormalizedWidth returns the bar scale factor for score: at least 0.01,
// and 1 when score equals 100*scalar.
func NormalizedWidth(score, scalar float64) float64 {
	return math.Max(1, math.Ceil(score/scalar)) / 100
}

// Percent is the displayed percentage for a raw score.
func Percent(score float64) int {
	return int(math.Ceil(score))
}
