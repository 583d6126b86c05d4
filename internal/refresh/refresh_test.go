package refresh

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autoadmin/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	failing  bool
	fetches  atomic.Int64
	users    []models.User
	bookings []models.Booking
	services []models.Service
}

func (f *fakeSource) fail(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *fakeSource) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("backend down")
	}
	return nil
}

func (f *fakeSource) ListUsers(ctx context.Context) ([]models.User, error) {
	f.fetches.Add(1)
	return f.users, f.err()
}

func (f *fakeSource) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return f.bookings, f.err()
}

func (f *fakeSource) ListServices(ctx context.Context) ([]models.Service, error) {
	return f.services, f.err()
}

func (f *fakeSource) UsersCount(ctx context.Context) (models.UserCount, error) {
	return models.UserCount{Total: len(f.users)}, f.err()
}

func (f *fakeSource) BookingsCount(ctx context.Context) (models.BookingCount, error) {
	return models.BookingCount{Total: len(f.bookings)}, f.err()
}

func (f *fakeSource) PaymentsTotal(ctx context.Context) (models.PaymentSummary, error) {
	return models.PaymentSummary{Total: 100}, f.err()
}

func (f *fakeSource) BookingTrends(ctx context.Context) (models.TrendSeries, error) {
	return models.TrendSeries{Labels: []string{"Jan"}, Data: []float64{1}}, f.err()
}

func (f *fakeSource) ServiceDistribution(ctx context.Context) (models.ServiceDistribution, error) {
	return models.ServiceDistribution{Labels: []string{"MOT"}, Values: []float64{1}}, f.err()
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		users:    []models.User{{ID: 1, Email: "a@b.co"}},
		bookings: []models.Booking{{ID: 7}},
		services: []models.Service{{ID: 3, Name: "MOT"}},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestRefreshNowPopulatesSnapshot(t *testing.T) {
	src := newFakeSource()
	r := New(src, time.Second, []string{"dashboard", "users", "bookings", "services"}, testLogger())

	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	require.Len(t, snap.Users, 1)
	require.Len(t, snap.Bookings, 1)
	require.Len(t, snap.Services, 1)
	assert.Equal(t, 1, snap.UserCount.Total)
	assert.InDelta(t, 100, float64(snap.Payments.Total), 0.001)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestRefreshKeepsLastGoodOnFailure(t *testing.T) {
	src := newFakeSource()
	r := New(src, time.Second, []string{"users", "bookings"}, testLogger())

	r.RefreshNow(context.Background())
	require.Len(t, r.Snapshot().Users, 1)

	src.fail(true)
	src.users = nil
	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	assert.Len(t, snap.Users, 1, "failed fetch must not clear the snapshot")
	assert.Len(t, snap.Bookings, 1)
}

func TestRefreshSkipsUnlistedPages(t *testing.T) {
	src := newFakeSource()
	r := New(src, time.Second, []string{"services"}, testLogger())

	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Bookings)
	assert.Len(t, snap.Services, 1)
}

func TestEnabled(t *testing.T) {
	r := New(newFakeSource(), time.Second, []string{"dashboard", "users"}, testLogger())
	assert.True(t, r.Enabled("dashboard"))
	assert.True(t, r.Enabled("users"))
	assert.False(t, r.Enabled("reports"))
}

func TestRunPollsAndStops(t *testing.T) {
	src := newFakeSource()
	r := New(src, 10*time.Millisecond, []string{"users"}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return src.fetches.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancellation")
	}
}

func TestSnapshotReadsDuringRefresh(t *testing.T) {
	src := newFakeSource()
	r := New(src, time.Second, []string{"dashboard", "users", "bookings", "services"}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.RefreshNow(context.Background())
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, r.Snapshot().Users, 1)
}
