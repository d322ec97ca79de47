package portfolio

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"investmanager.com/types"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

var (
	refMu   sync.Mutex
	refMono = ulid.Monotonic(rand.Reader, 0)
)

// NewReference returns a lexically sortable transaction reference.
func NewReference(at time.Time) string {
	refMu.Lock()
	defer refMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), refMono).String()
}

// Filter narrows Query. Zero times leave that end open.
type Filter struct {
	AccountIDs []uint
	UserID     *uint
	From       time.Time
	To         time.Time
}

type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Append inserts t. Rows are never updated afterwards.
func (l *Ledger) Append(tx *gorm.DB, t *types.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Reference == "" {
		t.Reference = NewReference(t.CreatedAt)
	}
	if err := tx.Create(t).Error; err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// Query returns matching transactions oldest first.
func (l *Ledger) Query(tx *gorm.DB, f Filter) ([]types.Transaction, error) {
	out := []types.Transaction{}
	q := tx.Model(&types.Transaction{})
	if f.AccountIDs != nil {
		if len(f.AccountIDs) == 0 {
			return out, nil
		}
		q = q.Where("account_id IN ?", f.AccountIDs)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To.UTC())
	}
	if err := q.Order("created_at, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return out, nil
}

// DeleteForAccount is the account cascade; it is not an update and so does
// not trip the immutability hook.
func (l *Ledger) DeleteForAccount(tx *gorm.DB, accountID uint) error {
	return tx.Where("account_id = ?", accountID).Delete(&types.Transaction{}).Error
}
