package store

import (
	"context"
	"log/slog"
	"time"
)

const gatewayTimeout = 2 * time.Second

// BestGateway exposes the best score to the typing engine. Storage errors are
// logged and swallowed so a broken database never interrupts a test.
type BestGateway struct {
	store  *Store
	logger *slog.Logger
}

// NewBestGateway wraps st for use by the engine.
func NewBestGateway(st *Store, logger *slog.Logger) *BestGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &BestGateway{store: st, logger: logger}
}

// LoadBestWPM returns the best score, or 0 when unavailable.
func (g *BestGateway) LoadBestWPM() float64 {
	if g.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
	defer cancel()
	wpm, err := g.store.BestWPM(ctx)
	if err != nil {
		g.logger.Error("failed to load best WPM", "error", err)
		return 0
	}
	return wpm
}

// SaveBestWPM records wpm if it beats the stored best.
func (g *BestGateway) SaveBestWPM(wpm int) {
	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
	defer cancel()
	updated, err := g.store.SaveBestWPM(ctx, float64(wpm))
	if err != nil {
		g.logger.Error("failed to save best WPM", "wpm", wpm, "error", err)
		return
	}
	if updated {
		g.logger.Info("new best WPM", "wpm", wpm)
	}
}
