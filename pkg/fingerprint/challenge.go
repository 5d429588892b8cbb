package fingerprint

const (
	// TamperScore is returned when the current fingerprint carries a signal the
	// recorded one never had. It always fails a challenge.
	TamperScore = 100.0

	// DefaultThreshold is the score at which a challenge fails.
	DefaultThreshold = 1.5
)

// penaltyBands are checked in order and are exclusive: a signal earns the
// penalty of the first band its similarity falls below, nothing more.
var penaltyBands = [...]struct {
	below   float64
	penalty float64
}{
	{below: 70, penalty: 1.5},
	{below: 80, penalty: 1.0},
	{below: 90, penalty: 0.5},
}

// Score quantifies how far current deviates from recorded. Identical
// fingerprints score 0. Signals that are empty on both sides are ignored.
func Score(recorded, current Fingerprint) float64 {
	var score float64
	for key, value := range current {
		old, ok := recorded[key]
		if !ok {
			return TamperScore
		}
		if old == "" && value == "" {
			continue
		}
		score += penalty(Similarity(old, value))
	}
	return score
}

func penalty(similarity float64) float64 {
	for _, band := range penaltyBands {
		if similarity < band.below {
			return band.penalty
		}
	}
	return 0
}

// Challenge scores current against recorded and reports whether the score
// stays below threshold. A non-positive threshold means DefaultThreshold.
func Challenge(recorded, current Fingerprint, threshold float64) (bool, float64) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	score := Score(recorded, current)
	return score < threshold, score
}
