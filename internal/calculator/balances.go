package calculator

import (
	"sort"

	"github.com/mmynk/circlefund/internal/models"
)

// MemberPosition is one principal's net position in a circle, derived from
// the escrow journal.
type MemberPosition struct {
	Principal   string
	Staked      uint64 // Stake deposited
	Contributed uint64 // Contributions deposited
	Refunded    uint64 // Stake and contributions returned
	Received    uint64 // Pot payouts received
	Penalized   uint64 // Stake slashed into the treasury
	Managed     uint64 // Stake charged as management fee
	NetPosition int64  // Received + Refunded - Staked - Contributed
}

// CirclePositions aggregates a circle's journal into per-member positions and
// the total fees routed to the treasury.
//
// Algorithm:
// - Inbound entries (stake, contribution) count against the member
// - Refunds and payouts count in the member's favour
// - Penalties are recorded separately, they never return to the member
// - Fee entries accumulate into the treasury total, management fees also
//   against the member whose stake paid them
func CirclePositions(entries []models.LedgerEntry) ([]MemberPosition, uint64, error) {
	positions := make(map[string]*MemberPosition)
	var fees uint64

	position := func(principal string) *MemberPosition {
		if _, exists := positions[principal]; !exists {
			positions[principal] = &MemberPosition{Principal: principal}
		}
		return positions[principal]
	}

	var err error
	for _, e := range entries {
		switch e.Kind {
		case models.EntryFee:
			fees, err = Add(fees, e.Amount)
		case models.EntryStakeIn:
			p := position(e.Principal)
			p.Staked, err = Add(p.Staked, e.Amount)
		case models.EntryContributionIn:
			p := position(e.Principal)
			p.Contributed, err = Add(p.Contributed, e.Amount)
		case models.EntryStakeRefund, models.EntryContributionRefund:
			p := position(e.Principal)
			p.Refunded, err = Add(p.Refunded, e.Amount)
		case models.EntryPayout:
			p := position(e.Principal)
			p.Received, err = Add(p.Received, e.Amount)
		case models.EntryPenalty:
			p := position(e.Principal)
			p.Penalized, err = Add(p.Penalized, e.Amount)
		case models.EntryManagementFee:
			p := position(e.Principal)
			if p.Managed, err = Add(p.Managed, e.Amount); err == nil {
				fees, err = Add(fees, e.Amount)
			}
		}
		if err != nil {
			return nil, 0, err
		}
	}

	result := make([]MemberPosition, 0, len(positions))
	for _, p := range positions {
		p.NetPosition = int64(p.Received+p.Refunded) - int64(p.Staked+p.Contributed)
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Principal < result[j].Principal
	})

	return result, fees, nil
}

// EscrowBalance replays the journal and returns what the escrow should hold:
// everything deposited minus everything paid out, refunded, slashed or
// charged as a fee.
func EscrowBalance(entries []models.LedgerEntry) (uint64, error) {
	var in, out uint64
	var err error
	for _, e := range entries {
		if e.Kind.Inbound() {
			in, err = Add(in, e.Amount)
		} else {
			out, err = Add(out, e.Amount)
		}
		if err != nil {
			return 0, err
		}
	}
	return Sub(in, out)
}
