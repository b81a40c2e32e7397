package entities

// Resonance scoring constants. Views below the sentinel are treated as the
// sentinel so the rate never divides by zero; the multiplier scales the
// weighted rate into the 1..100 band before clamping.
const (
	DefaultViewsSentinel = 1000
	resonanceMultiplier  = 1000
	MinResonance         = 1.0
	MaxResonance         = 100.0
)

// ComputeResonance maps raw engagement metrics to a bounded score.
// Comments and shares are weighted above likes because they are stronger
// intent signals; clamping bounds the influence of a single viral outlier
// on the downstream percentage splits.
func ComputeResonance(m Metrics) float64 {
	views := m.Views
	if views <= 0 {
		views = DefaultViewsSentinel
	}
	weighted := float64(m.Likes) + 2*float64(m.Comments) + 3*float64(m.Shares)
	score := weighted / float64(views) * resonanceMultiplier
	if score < MinResonance {
		return MinResonance
	}
	if score > MaxResonance {
		return MaxResonance
	}
	return score
}
