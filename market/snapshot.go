package market

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const snapshotDateLayout = "2006-01-02"

// SeedPrices are the simulated quotes written by `snapshot --seed`.
var SeedPrices = map[string]string{
	"AAPL":  "175.50",
	"GOOGL": "2800.10",
	"MSFT":  "299.50",
	"TSLA":  "702.50",
	"AMZN":  "3342.88",
	"IBM":   "217.16",
}

// Snapshot is the on-disk fallback price table:
//
//	{"date": "2024-01-31", "stocks": {"AAPL": 175.5}}
type Snapshot struct {
	Date   string                     `json:"date"`
	Stocks map[string]decimal.Decimal `json:"stocks"`
}

func NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		Date:   at.UTC().Format(snapshotDateLayout),
		Stocks: map[string]decimal.Decimal{},
	}
}

func SeedSnapshot(at time.Time) *Snapshot {
	s := NewSnapshot(at)
	for sym, p := range SeedPrices {
		s.Stocks[sym] = decimal.RequireFromString(p)
	}
	return s
}

func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	normalized := make(map[string]decimal.Decimal, len(s.Stocks))
	for sym, p := range s.Stocks {
		normalized[normalize(sym)] = p
	}
	s.Stocks = normalized
	return &s, nil
}

// Lookup reports false for unknown symbols and for negative prices.
func (s *Snapshot) Lookup(symbol string) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}
	p, ok := s.Stocks[normalize(symbol)]
	if !ok || p.IsNegative() {
		return decimal.Zero, false
	}
	return p, true
}

// AsOf is the zero time when the date is unreadable.
func (s *Snapshot) AsOf() time.Time {
	t, err := time.Parse(snapshotDateLayout, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Snapshot) Symbols() []string {
	out := make([]string, 0, len(s.Stocks))
	for sym := range s.Stocks {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// WriteSnapshot replaces path atomically so a concurrent reader sees either
// the old or the new file.
func WriteSnapshot(path string, s *Snapshot) error {
	stocks := make(map[string]json.Number, len(s.Stocks))
	for sym, p := range s.Stocks {
		stocks[sym] = json.Number(p.String())
	}
	body, err := json.MarshalIndent(struct {
		Date   string                 `json:"date"`
		Stocks map[string]json.Number `json:"stocks"`
	}{s.Date, stocks}, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(body, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
