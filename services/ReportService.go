package services

import (
	"errors"
	"fmt"

	"investmanager.com/dto"
	"investmanager.com/permissions"
	"investmanager.com/portfolio"
	"investmanager.com/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService is read-only. Totals are point-in-time; a concurrent Execute
// may or may not be reflected.
type ReportService struct {
	db        *gorm.DB
	registry  *permissions.Registry
	positions *portfolio.PositionStore
	ledger    *portfolio.Ledger
	converter *Converter
}

func NewReportService(conn *gorm.DB, registry *permissions.Registry, converter *Converter) *ReportService {
	return &ReportService{
		db:        conn,
		registry:  registry,
		positions: portfolio.NewPositionStore(),
		ledger:    portfolio.NewLedger(),
		converter: converter,
	}
}

// TransactionsFor lists one account's transactions when accountID is set,
// otherwise those of every account the actor may read.
func (s *ReportService) TransactionsFor(actor types.Actor, accountID *uint, r DateRange) ([]types.Transaction, error) {
	f := portfolio.Filter{From: r.From, To: r.To}
	if accountID != nil {
		if err := s.requireAccount(*accountID); err != nil {
			return nil, err
		}
		if err := s.registry.Require(nil, actor.UserID, *accountID, permissions.Read); err != nil {
			return nil, err
		}
		f.AccountIDs = []uint{*accountID}
	} else {
		ids, err := s.registry.ReadableAccounts(nil, actor.UserID)
		if err != nil {
			return nil, err
		}
		f.AccountIDs = ids
	}
	return s.ledger.Query(s.db, f)
}

func (s *ReportService) PortfolioSummary(actor types.Actor) (*dto.PortfolioSummary, error) {
	ids, err := MemberAccountIDs(s.db, actor.UserID)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.ListForAccounts(s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	total := decimal.Zero
	values := make([]dto.PositionValue, 0, len(positions))
	for _, pos := range positions {
		v := pos.TotalValue()
		total = total.Add(v)
		values = append(values, dto.PositionValue{Position: pos, Value: v.Round(amountPlaces)})
	}
	total = total.Round(amountPlaces)
	converted := s.converter.Convert(total)

	return &dto.PortfolioSummary{
		TotalValue:          total,
		TotalValueConverted: converted,
		TotalValueDisplay:   Display(total, s.converter.From),
		ConvertedDisplay:    Display(converted, s.converter.To),
		Currency:            s.converter.From,
		ConvertedCurrency:   s.converter.To,
		Positions:           values,
	}, nil
}

// UserReport is the administrator view of one user's transactions.
func (s *ReportService) UserReport(actor types.Actor, username string, r DateRange) (*dto.UserReport, error) {
	if d := permissions.Decide(actor, permissions.UserReports, types.NoAccess); !d.Allowed {
		return nil, types.AccessDenied(d.Reason)
	}

	var user types.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("user %s not found", username)
	}
	if err != nil {
		return nil, err
	}

	txns, err := s.ledger.Query(s.db, portfolio.Filter{UserID: &user.ID, From: r.From, To: r.To})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	converted := s.converter.Convert(total)
	return &dto.UserReport{
		Username:              user.Username,
		Transactions:          txns,
		TotalInvestments:      total,
		TotalInvestmentsInKES: converted,
		ConvertedDisplay:      Display(converted, s.converter.To),
	}, nil
}

func (s *ReportService) requireAccount(id uint) error {
	var count int64
	if err := s.db.Model(&types.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return types.NotFound("account %d not found", id)
	}
	return nil
}

// MemberAccountIDs lists the accounts userID belongs to.
func MemberAccountIDs(conn *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := conn.Table("account_members").Where("user_id = ?", userID).Order("account_id").Pluck("account_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list memberships of user %d: %w", userID, err)
	}
	return ids, nil
}
