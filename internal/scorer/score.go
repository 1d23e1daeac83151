// Package scorer turns an accumulated evidence multiset into a bounded
// integrity score and a categorical label. It is a pure function: same
// counts in, same (score, label) out, no state, no I/O.
package scorer

import (
	"math"

	"github.com/rohmanhakim/naive-backlink/internal/evidence"
)

// Label is the three-way bucket a score partitions into.
type Label string

const (
	LabelLow    Label = "low"
	LabelMedium Label = "medium"
	LabelHigh   Label = "high"
)

const (
	strongWeight   = 85.0
	weakWeight     = 50.0
	indirectWeight = 10.0

	weakSaturation     = 2.0
	indirectSaturation = 5.0

	highThreshold   = 80
	mediumThreshold = 50
)

// Score computes (score, label) from records. Penalties are a hook point
// the spec documents but does not require; pass 0 when none apply.
func Score(records []evidence.Record, penalties float64) (int, Label) {
	var strong, weak, indirect int
	for _, r := range records {
		switch r.Classification {
		case evidence.ClassificationStrong:
			strong++
		case evidence.ClassificationWeak:
			weak++
		case evidence.ClassificationIndirect:
			indirect++
		}
	}

	s := math.Min(1, float64(strong))
	w := math.Min(1, float64(weak)/weakSaturation)
	i := math.Min(1, float64(indirect)/indirectSaturation)

	raw := strongWeight*s + weakWeight*w + indirectWeight*i - penalties
	score := clamp(int(math.Floor(raw)), 0, 100)

	return score, labelFor(score)
}

func labelFor(score int) Label {
	switch {
	case score >= highThreshold:
		return LabelHigh
	case score >= mediumThreshold:
		return LabelMedium
	default:
		return LabelLow
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
