package cron

import (
	"context"
	"sort"
	"time"

	"investmanager.com/config"
	"investmanager.com/market"
	"investmanager.com/portfolio"
	"investmanager.com/types"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PriceSource is the part of the market gateway the jobs need.
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) market.Result
	Refresh(ctx context.Context, symbols []string) (*market.Snapshot, error)
}

type Scheduler struct {
	cron    *cron.Cron
	reprice *gocron.Scheduler
}

// StartScheduler registers the snapshot refresh on SNAPSHOT_CRON and the
// position repricing every REPRICE_INTERVAL.
func StartScheduler(cfg *config.Config, conn *gorm.DB, prices PriceSource) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(cfg.SnapshotCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := RefreshSnapshot(ctx, conn, prices, cfg.SnapshotSymbols); err != nil {
			log.Errorf("Snapshot refresh failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	_, err = s.Every(cfg.RepriceInterval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		n, err := RepricePositions(ctx, conn, prices)
		if err != nil {
			log.Errorf("Repricing failed: %v", err)
			return
		}
		log.Infof("Repriced %d investments", n)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	s.StartAsync()
	log.Infof("Scheduler started: snapshot %q, reprice every %s", cfg.SnapshotCron, cfg.RepriceInterval)
	return &Scheduler{cron: c, reprice: s}, nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.reprice.Stop()
}

// RefreshSnapshot rewrites the fallback file for the configured symbols plus
// every symbol currently held.
func RefreshSnapshot(ctx context.Context, conn *gorm.DB, prices PriceSource, configured []string) error {
	log.Info("Starting snapshot refresh...")
	held, err := portfolio.NewPositionStore().Symbols(conn)
	if err != nil {
		return err
	}
	snap, err := prices.Refresh(ctx, mergeSymbols(configured, held))
	if err != nil {
		return err
	}
	log.Infof("Snapshot refresh completed: %d symbols dated %s", len(snap.Stocks), snap.Date)
	return nil
}

// RepricePositions refreshes the unit price of every held position. Symbols
// the gateway cannot price are left alone. Each write takes the same lock as
// the transaction processor.
func RepricePositions(ctx context.Context, conn *gorm.DB, prices PriceSource) (int, error) {
	store := portfolio.NewPositionStore()
	symbols, err := store.Symbols(conn)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, sym := range symbols {
		quote := prices.FetchPrice(ctx, sym)
		if quote.Err != nil {
			log.Warnf("Skipping reprice of %s: %v", sym, quote.Err)
			continue
		}
		positions, err := store.ListBySymbol(conn, sym)
		if err != nil {
			return updated, err
		}
		for _, pos := range positions {
			if err := reprice(conn, pos, quote); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

func reprice(conn *gorm.DB, pos types.Position, quote market.Result) error {
	lock := portfolio.Locks.For(pos.AccountID, pos.Symbol)
	lock.Lock()
	defer lock.Unlock()

	return conn.Model(&types.Position{}).
		Where("id = ?", pos.ID).
		Update("price_per_unit", quote.Price).Error
}

func mergeSymbols(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
