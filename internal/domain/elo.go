package domain

import "math"

const (
	KFactor       = 32.0
	InitialRating = 1200
)

// Outcome of a pairing from the first side's point of view.
const (
	OutcomeLoss = 0.0
	OutcomeDraw = 0.5
	OutcomeWin  = 1.0
)

// ExpectedScore is the probability-like score A is expected to take off B.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
}

// UpdateRatings applies one result to both ratings. Ratings never drop below zero.
func UpdateRatings(ratingA, ratingB int, outcome float64) (int, int) {
	deltaA := KFactor * (outcome - ExpectedScore(ratingA, ratingB))
	newA := int(math.Round(float64(ratingA) + deltaA))
	newB := int(math.Round(float64(ratingB) - deltaA))
	return max(newA, 0), max(newB, 0)
}
