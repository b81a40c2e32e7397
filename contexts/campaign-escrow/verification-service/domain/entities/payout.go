package entities

import (
	"errors"
	"math"
	"time"
)

// SplitTolerance is the fixed-point budget of the settlement layer:
// percentages carry eight decimal places and must sum to exactly 1.0.
const SplitTolerance = 1e-8

// Allocator contract errors. ErrSplitSumMismatch signals an internal
// consistency bug, never a retryable condition.
var (
	ErrNoEligibleCreators = errors.New("no eligible creators")
	ErrSplitSumMismatch   = errors.New("payout splits do not sum to 1.0")
)

type PayoutSplit struct {
	CreatorAddress string
	Percent        float64
	AmountFlow     float64
}

// PayoutReceipt ties a campaign to its settlement transaction. Created
// exactly once, when the campaign transitions to paid.
type PayoutReceipt struct {
	CampaignID string
	PayoutTxID string
	Splits     []PayoutSplit
	CreatedAt  time.Time
}

// RoundFix8 rounds to the 8-decimal fixed-point grid used on the ledger.
func RoundFix8(value float64) float64 {
	return math.Round(value*1e8) / 1e8
}

// AllocatePayout turns eligible submissions into normalized percentage
// splits and absolute amounts. Grouping order is stable (first submission
// encountered per creator), which also breaks ties when the rounding
// residual is assigned to the largest share.
func AllocatePayout(eligible []Submission, budget float64) ([]PayoutSplit, error) {
	totals := make(map[string]float64, len(eligible))
	order := make([]string, 0, len(eligible))
	for _, item := range eligible {
		if _, seen := totals[item.CreatorAddress]; !seen {
			order = append(order, item.CreatorAddress)
		}
		totals[item.CreatorAddress] += item.ResonanceScore
	}

	grandTotal := 0.0
	for _, addr := range order {
		grandTotal += totals[addr]
	}
	if grandTotal <= 0 {
		return nil, ErrNoEligibleCreators
	}

	splits := make([]PayoutSplit, 0, len(order))
	for _, addr := range order {
		splits = append(splits, PayoutSplit{
			CreatorAddress: addr,
			Percent:        RoundFix8(totals[addr] / grandTotal),
		})
	}

	// Force the rounded percents to sum to exactly 1.0 by handing the whole
	// residual to the single largest share instead of spreading dust.
	sum := 0.0
	largest := 0
	for i, split := range splits {
		sum += split.Percent
		if split.Percent > splits[largest].Percent {
			largest = i
		}
	}
	if diff := 1.0 - sum; math.Abs(diff) > SplitTolerance {
		splits[largest].Percent = RoundFix8(splits[largest].Percent + diff)
	}

	amountSum := 0.0
	for i := range splits {
		splits[i].AmountFlow = RoundFix8(budget * splits[i].Percent)
		amountSum += splits[i].AmountFlow
	}
	if diff := budget - amountSum; math.Abs(diff) > SplitTolerance {
		splits[largest].AmountFlow = RoundFix8(splits[largest].AmountFlow + diff)
	}

	if !ValidateSplits(splits) {
		return nil, ErrSplitSumMismatch
	}
	return splits, nil
}

func ValidateSplits(splits []PayoutSplit) bool {
	sum := 0.0
	for _, split := range splits {
		sum += split.Percent
	}
	return math.Abs(sum-1.0) <= SplitTolerance
}

// LeaderboardEntry is derived on demand from the submission log and never
// persisted, so there is no second source of truth to drift.
type LeaderboardEntry struct {
	CreatorAddress  string
	TotalResonance  float64
	SubmissionCount int
	Percent         float64
}

// BuildLeaderboard aggregates the eligible set per creator, ordered by
// total resonance descending with stable grouping order as tiebreak.
func BuildLeaderboard(eligible []Submission) []LeaderboardEntry {
	index := make(map[string]int, len(eligible))
	entries := make([]LeaderboardEntry, 0, len(eligible))
	grandTotal := 0.0
	for _, item := range eligible {
		pos, seen := index[item.CreatorAddress]
		if !seen {
			pos = len(entries)
			index[item.CreatorAddress] = pos
			entries = append(entries, LeaderboardEntry{CreatorAddress: item.CreatorAddress})
		}
		entries[pos].TotalResonance += item.ResonanceScore
		entries[pos].SubmissionCount++
		grandTotal += item.ResonanceScore
	}
	if grandTotal > 0 {
		for i := range entries {
			entries[i].Percent = RoundFix8(entries[i].TotalResonance / grandTotal)
		}
	}
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].TotalResonance > entries[j-1].TotalResonance; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	return entries
}
