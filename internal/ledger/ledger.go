// Package ledger holds the pure CU accounting rules: exit penalties, resolution
// payouts and pool aggregation. Nothing here touches storage.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/Credence_Go/internal/domain"
)

// CalculatePenalty computes the cost of pulling cuCommitted out of a pool
// before resolution. The burn rate is the exiting side's share of the pool,
// never less than MinBurnRate, so a sole committer burns everything.
func CalculatePenalty(cuCommitted, yourSideCU, totalPoolCU int64) (domain.Penalty, error) {
	switch {
	case cuCommitted <= 0:
		return domain.Penalty{}, fmt.Errorf("%w: %s (got %d)", domain.ErrLedgerInvariant, ErrMsgNonPositiveCommitment, cuCommitted)
	case yourSideCU < cuCommitted:
		return domain.Penalty{}, fmt.Errorf("%w: %s (side %d, committed %d)", domain.ErrLedgerInvariant, ErrMsgSideBelowCommitment, yourSideCU, cuCommitted)
	case totalPoolCU < yourSideCU:
		return domain.Penalty{}, fmt.Errorf("%w: %s (pool %d, side %d)", domain.ErrLedgerInvariant, ErrMsgPoolBelowSide, totalPoolCU, yourSideCU)
	}

	rate := BurnRate(yourSideCU, totalPoolCU)
	burned := decimal.NewFromInt(cuCommitted).Mul(rate).Round(0).IntPart()

	return domain.Penalty{
		CuBurned:   burned,
		CuRefunded: cuCommitted - burned,
		BurnRate:   rate.InexactFloat64(),
	}, nil
}

// BurnRate returns max(MinBurnRate, yourSideCU/totalPoolCU) capped at
// MaxBurnRate. Callers validate the inputs; totalPoolCU must be positive.
func BurnRate(yourSideCU, totalPoolCU int64) decimal.Decimal {
	share := decimal.NewFromInt(yourSideCU).Div(decimal.NewFromInt(totalPoolCU))
	rate := decimal.Max(MinBurnRate, share)
	return decimal.Min(rate, MaxBurnRate)
}

// CalculateResolutionPayout computes what a single commitment receives when
// its prediction is resolved.
func CalculateResolutionPayout(cuCommitted int64, wasCorrect bool, outcome domain.ResolutionOutcome) (domain.Payout, error) {
	if cuCommitted <= 0 {
		return domain.Payout{}, fmt.Errorf("%w: %s (got %d)", domain.ErrLedgerInvariant, ErrMsgNonPositiveCommitment, cuCommitted)
	}

	stake := decimal.NewFromInt(cuCommitted)
	switch outcome {
	case domain.OutcomeVoid, domain.OutcomeUnresolvable:
		return domain.Payout{CuReturned: cuCommitted, RsChange: 0}, nil
	case domain.OutcomeCorrect, domain.OutcomeWrong:
		if wasCorrect {
			return domain.Payout{
				CuReturned: stake.Mul(CorrectPayoutMultiplier).Floor().IntPart(),
				RsChange:   stake.Mul(CorrectRSRate).InexactFloat64(),
			}, nil
		}
		return domain.Payout{
			CuReturned: 0,
			RsChange:   stake.Mul(WrongRSRate).InexactFloat64(),
		}, nil
	}
	return domain.Payout{}, fmt.Errorf("%w: %s %q", domain.ErrLedgerInvariant, ErrMsgUnknownOutcome, outcome)
}

// ApplyRSChange adds change to rs and floors the result at zero. Decimal
// addition keeps repeated small changes from drifting.
func ApplyRSChange(rs, change float64) float64 {
	next := decimal.NewFromFloat(rs).Add(decimal.NewFromFloat(change))
	if next.IsNegative() {
		return 0
	}
	return next.InexactFloat64()
}

// SumRS adds two reputation changes without flooring
func SumRS(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

// WasCorrect decides whether choice backed the winning side
func WasCorrect(choice domain.Choice, outcome domain.ResolutionOutcome, winningOptionID string) bool {
	if !outcome.IsJudged() {
		return false
	}
	if optionID, ok := choice.OptionID(); ok {
		return winningOptionID != "" && optionID == winningOptionID
	}
	yes, ok := choice.Binary()
	if !ok {
		return false
	}
	return (outcome == domain.OutcomeCorrect && yes) || (outcome == domain.OutcomeWrong && !yes)
}

// ComputePool aggregates the live pool as seen from side
func ComputePool(commitments []domain.Commitment, side domain.Choice) domain.Pool {
	var pool domain.Pool
	for _, c := range commitments {
		pool.TotalPoolCU += c.CuCommitted
		if c.Choice.SameSide(side) {
			pool.YourSideCU += c.CuCommitted
		}
	}
	return pool
}

// Breakdown groups commitments by side, in first-seen order
func Breakdown(predictionID string, commitments []domain.Commitment) domain.PoolBreakdown {
	out := domain.PoolBreakdown{PredictionID: predictionID, Sides: []domain.PoolSide{}}
	for _, c := range commitments {
		out.TotalPoolCU += c.CuCommitted
		idx := -1
		for i := range out.Sides {
			if out.Sides[i].Choice.SameSide(c.Choice) {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Sides = append(out.Sides, domain.PoolSide{Choice: c.Choice})
			idx = len(out.Sides) - 1
		}
		out.Sides[idx].CuCommitted += c.CuCommitted
		out.Sides[idx].Commitments++
	}
	return out
}
