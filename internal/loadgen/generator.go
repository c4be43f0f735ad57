package loadgen

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	randomFloatDivisor = 1000000
	minRaceSeconds     = 8.0
	raceSecondsRange   = 112.0
	nameSuffixLength   = 8
)

var outcomes = []string{"win", "lose", "crash", "timeout"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// GenerateResults creates n runs with unique player names.
func GenerateResults(n int) []Result {
	runs := make([]Result, n)
	for i := range runs {
		id := uuid.NewString()
		name := "racer-" + id[:nameSuffixLength]
		runs[i] = Result{
			Name:    name,
			Email:   name + "@loadgen.local",
			TimeS:   minRaceSeconds + getRandomFloat()*raceSecondsRange,
			Outcome: outcomes[randomIndex(len(outcomes))],
		}
	}
	return runs
}
