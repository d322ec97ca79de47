package services

import (
	"investmanager.com/types"
)

// Investments lists positions in every account the actor is a member of.
func (s *ReportService) Investments(actor types.Actor) ([]types.Position, error) {
	ids, err := MemberAccountIDs(s.db, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.positions.ListForAccounts(s.db, ids)
}

// InvestmentsBetween narrows Investments to positions first opened inside r.
// Both bounds are required.
func (s *ReportService) InvestmentsBetween(actor types.Actor, r DateRange) ([]types.Position, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return nil, types.InvalidInput("start_date and end_date are required")
	}
	ids, err := MemberAccountIDs(s.db, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.positions.ListCreatedBetween(s.db, ids, r.From, r.To)
}
