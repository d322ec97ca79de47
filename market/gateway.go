package market

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"investmanager.com/types"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

const (
	SourceLive     = "live"
	SourceSnapshot = "snapshot"
)

var errNotFound = types.GatewayError("price data not found")

// Result is what FetchPrice hands back. Err is set and Price is zero when no
// source knew the symbol.
type Result struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	AsOf   time.Time       `json:"as_of"`
	Err    error           `json:"-"`
}

type Gateway struct {
	live         Provider
	snapshotPath string
	timeout      time.Duration
	now          func() time.Time
}

// NewGateway accepts a nil live provider for snapshot-only operation.
func NewGateway(live Provider, snapshotPath string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gateway{
		live:         live,
		snapshotPath: snapshotPath,
		timeout:      timeout,
		now:          time.Now,
	}
}

func (g *Gateway) SnapshotPath() string { return g.snapshotPath }

// FetchPrice tries the live provider once, then the snapshot file.
func (g *Gateway) FetchPrice(ctx context.Context, symbol string) (res Result) {
	symbol = normalize(symbol)
	res.Symbol = symbol
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("market: provider panic for %s: %v", symbol, r)
			res = g.fromSnapshot(symbol)
		}
	}()

	if symbol == "" {
		res.Err = types.InvalidInput("symbol is required")
		return res
	}

	if g.live != nil {
		price, err := g.quoteLive(ctx, symbol)
		if err == nil {
			return Result{Symbol: symbol, Price: price, Source: SourceLive, AsOf: g.now().UTC()}
		}
		log.Warnf("market: %s quote for %s failed, using snapshot: %v", g.live.Name(), symbol, err)
	}
	return g.fromSnapshot(symbol)
}

func (g *Gateway) quoteLive(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	price, err := g.live.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

func (g *Gateway) fromSnapshot(symbol string) Result {
	snap, err := LoadSnapshot(g.snapshotPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("market: snapshot unavailable: %v", err)
		}
		return Result{Symbol: symbol, Err: errNotFound}
	}
	price, ok := snap.Lookup(symbol)
	if !ok {
		return Result{Symbol: symbol, Err: errNotFound}
	}
	return Result{Symbol: symbol, Price: price, Source: SourceSnapshot, AsOf: snap.AsOf()}
}

// Refresh queries the live provider for each symbol and writes a new
// snapshot. Symbols the feed cannot price keep their previous value, or the
// seed value if there was none.
func (g *Gateway) Refresh(ctx context.Context, symbols []string) (*Snapshot, error) {
	next := NewSnapshot(g.now())
	prev, err := LoadSnapshot(g.snapshotPath)
	if err != nil {
		prev = SeedSnapshot(g.now())
	}

	for _, sym := range symbols {
		sym = normalize(sym)
		if sym == "" {
			continue
		}
		if g.live != nil {
			price, err := g.quoteLive(ctx, sym)
			if err == nil {
				next.Stocks[sym] = price
				continue
			}
			log.Warnf("market: refresh %s: %v", sym, err)
		}
		if price, ok := prev.Lookup(sym); ok {
			next.Stocks[sym] = price
		}
	}

	if err := WriteSnapshot(g.snapshotPath, next); err != nil {
		return nil, err
	}
	return next, nil
}
