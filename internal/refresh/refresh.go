// Package refresh keeps a warm snapshot of the backend data behind the
// admin pages. Exports and sidebar badges read from the snapshot; page
// handlers fetch live and only fall back to it.
package refresh

import (
	"context"
	"sync"
	"time"

	"autoadmin/internal/metrics"
	"autoadmin/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source is the slice of the backend client the refresher polls.
type Source interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	UsersCount(ctx context.Context) (models.UserCount, error)
	BookingsCount(ctx context.Context) (models.BookingCount, error)
	PaymentsTotal(ctx context.Context) (models.PaymentSummary, error)
	BookingTrends(ctx context.Context) (models.TrendSeries, error)
	ServiceDistribution(ctx context.Context) (models.ServiceDistribution, error)
}

// Snapshot is the last-known-good copy of the backend data. Sections a
// failed fetch could not update keep their previous values.
type Snapshot struct {
	Users        []models.User
	Bookings     []models.Booking
	Services     []models.Service
	UserCount    models.UserCount
	BookingCount models.BookingCount
	Payments     models.PaymentSummary
	Trends       models.TrendSeries
	Distribution models.ServiceDistribution
	UpdatedAt    time.Time
}

// Refresher polls the backend on a fixed interval. Ticks fire
// regardless of in-flight fetches; a late fetch overwriting a newer
// section is harmless, the next tick corrects it.
type Refresher struct {
	source   Source
	logger   zerolog.Logger
	interval time.Duration
	pages    map[string]bool

	mu       sync.RWMutex
	snapshot Snapshot
}

func New(source Source, interval time.Duration, pages []string, logger zerolog.Logger) *Refresher {
	pageSet := make(map[string]bool, len(pages))
	for _, p := range pages {
		pageSet[p] = true
	}

	return &Refresher{
		source:   source,
		logger:   logger,
		interval: interval,
		pages:    pageSet,
	}
}

// Enabled reports whether a page is in the refresh whitelist.
func (r *Refresher) Enabled(page string) bool {
	return r.pages[page]
}

// Snapshot returns a copy of the current snapshot.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Refresher) swap(update func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.snapshot)
}

// Run performs an initial fetch and then polls until the context is
// cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("refresher stopped")
			return
		case <-ticker.C:
			metrics.IncRefreshTick()
			go r.RefreshNow(ctx)
		}
	}
}

// RefreshNow fetches every section the page whitelist needs. Sections
// that fail keep their previous values.
func (r *Refresher) RefreshNow(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		users    []models.User
		bookings []models.Booking
		services []models.Service
		uc       models.UserCount
		bc       models.BookingCount
		payments models.PaymentSummary
		trends   models.TrendSeries
		dist     models.ServiceDistribution
	)
	var okUsers, okBookings, okServices, okUC, okBC, okPayments, okTrends, okDist bool

	wantsDashboard := r.pages["dashboard"]

	if r.pages["users"] || wantsDashboard {
		g.Go(func() error {
			if v, err := r.source.ListUsers(gctx); err == nil {
				users, okUsers = v, true
			} else {
				r.logger.Warn().Err(err).Msg("refresh users failed")
			}
			return nil
		})
		g.Go(func() error {
			if v, err := r.source.UsersCount(gctx); err == nil {
				uc, okUC = v, true
			}
			return nil
		})
	}
	if r.pages["bookings"] || r.pages["payments"] || wantsDashboard {
		g.Go(func() error {
			if v, err := r.source.ListBookings(gctx); err == nil {
				bookings, okBookings = v, true
			} else {
				r.logger.Warn().Err(err).Msg("refresh bookings failed")
			}
			return nil
		})
		g.Go(func() error {
			if v, err := r.source.BookingsCount(gctx); err == nil {
				bc, okBC = v, true
			}
			return nil
		})
	}
	if r.pages["services"] || wantsDashboard {
		g.Go(func() error {
			if v, err := r.source.ListServices(gctx); err == nil {
				services, okServices = v, true
			} else {
				r.logger.Warn().Err(err).Msg("refresh services failed")
			}
			return nil
		})
	}
	if r.pages["payments"] || wantsDashboard {
		g.Go(func() error {
			if v, err := r.source.PaymentsTotal(gctx); err == nil {
				payments, okPayments = v, true
			}
			return nil
		})
	}
	if wantsDashboard {
		g.Go(func() error {
			if v, err := r.source.BookingTrends(gctx); err == nil {
				trends, okTrends = v, true
			}
			return nil
		})
		g.Go(func() error {
			if v, err := r.source.ServiceDistribution(gctx); err == nil {
				dist, okDist = v, true
			}
			return nil
		})
	}

	_ = g.Wait()

	r.swap(func(snap *Snapshot) {
		if okUsers {
			snap.Users = users
		}
		if okBookings {
			snap.Bookings = bookings
		}
		if okServices {
			snap.Services = services
		}
		if okUC {
			snap.UserCount = uc
		}
		if okBC {
			snap.BookingCount = bc
		}
		if okPayments {
			snap.Payments = payments
		}
		if okTrends {
			snap.Trends = trends
		}
		if okDist {
			snap.Distribution = dist
		}
		snap.UpdatedAt = time.Now()
	})
}
