package entities

import (
	"fmt"
	"time"
)

// DefaultMaxLikesPerComment is the bot-pattern threshold: posts whose likes
// exceed this multiple of their comments look like purchased engagement.
// Heuristic policy value, overridable through configuration.
const DefaultMaxLikesPerComment = 10.0

// ProofMetrics is the slice of a submission the fraud gate inspects.
type ProofMetrics struct {
	PostID    string
	Likes     int64
	Comments  int64
	Shares    int64
	Timestamp time.Time
}

type FraudReport struct {
	Passed  bool
	Reasons []string
}

func (s Submission) ProofMetrics() ProofMetrics {
	return ProofMetrics{
		PostID:    s.PostID,
		Likes:     s.Metrics.Likes,
		Comments:  s.Metrics.Comments,
		Shares:    s.Metrics.Shares,
		Timestamp: s.PostedAt,
	}
}

// RunFraudChecks is a cheap, explainable pre-filter for obviously malformed
// or spam-like batches, not a full anti-fraud system. Every failed check is
// independently disqualifying and reported with a reason.
func RunFraudChecks(proofs []ProofMetrics, maxLikesPerComment float64) FraudReport {
	if maxLikesPerComment <= 0 {
		maxLikesPerComment = DefaultMaxLikesPerComment
	}

	report := FraudReport{Passed: true}
	seen := make(map[string]struct{}, len(proofs))
	for _, proof := range proofs {
		if _, dup := seen[proof.PostID]; dup {
			report.Passed = false
			report.Reasons = append(report.Reasons, fmt.Sprintf("duplicate post id %s", proof.PostID))
			continue
		}
		seen[proof.PostID] = struct{}{}
	}

	for _, proof := range proofs {
		if proof.Comments > 0 {
			ratio := float64(proof.Likes) / float64(proof.Comments)
			if ratio > maxLikesPerComment {
				report.Passed = false
				report.Reasons = append(report.Reasons, fmt.Sprintf("suspicious likes/comments ratio %.1f for post %s", ratio, proof.PostID))
			}
		}
	}

	for _, proof := range proofs {
		if proof.Timestamp.IsZero() || proof.Timestamp.Unix() <= 0 {
			report.Passed = false
			report.Reasons = append(report.Reasons, fmt.Sprintf("missing timestamp for post %s", proof.PostID))
		}
	}

	for _, proof := range proofs {
		if proof.Likes < 0 || proof.Comments < 0 || proof.Shares < 0 {
			report.Passed = false
			report.Reasons = append(report.Reasons, fmt.Sprintf("negative engagement metrics for post %s", proof.PostID))
		}
	}
	return report
}
