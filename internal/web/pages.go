package web

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"autoadmin/internal/export"
	"autoadmin/internal/models"
	"autoadmin/internal/view"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// tableData backs the list pages: a filtered table plus the search box
// state and the base path for edit/delete links.
type tableData struct {
	Table    view.Table
	BasePath string
	Query    string
}

// unableTable is the inline failure placeholder: same columns, one
// full-width message row, still a 200 to the admin.
func unableTable(columns []string, what string) view.Table {
	return view.Table{Columns: columns, EmptyMessage: "Unable to load " + what}
}

func (s *Server) listPage(w http.ResponseWriter, r *http.Request, page, title, basePath string, load func() (view.Table, error)) {
	table, err := load()
	if err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("list load failed")
		table = unableTable(table.Columns, page)
	}

	query := r.URL.Query().Get("q")
	s.render(w, r, page, title, tableData{
		Table:    view.Filter(table, query),
		BasePath: basePath,
		Query:    query,
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.listPage(w, r, "users", "Users", "/users", func() (view.Table, error) {
		users, err := s.backend.ListUsers(r.Context())
		if err != nil {
			return view.UsersTable(nil), err
		}
		return view.UsersTable(users), nil
	})
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	s.listPage(w, r, "bookings", "Bookings", "/bookings", func() (view.Table, error) {
		bookings, err := s.backend.ListBookings(r.Context())
		if err != nil {
			return view.BookingsTable(nil), err
		}
		return view.BookingsTable(bookings), nil
	})
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	s.listPage(w, r, "services", "Services", "/services", func() (view.Table, error) {
		services, err := s.backend.ListServices(r.Context())
		if err != nil {
			return view.ServicesTable(nil), err
		}
		return view.ServicesTable(services), nil
	})
}

type recentEntry struct {
	Customer string
	Service  string
	Email    string
	When     string
}

type dashboardData struct {
	UserCount         models.UserCount
	BookingCount      models.BookingCount
	Revenue           string
	RevenueToday      string
	ServiceCount      int
	TrendChart        view.Chart
	DistributionChart view.Chart
	RecentBookings    []recentEntry
	RecentUsers       []recentEntry
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	data := dashboardData{
		Revenue:           "-",
		RevenueToday:      "-",
		TrendChart:        view.TrendChart(models.TrendSeries{}),
		DistributionChart: view.DistributionChart(models.ServiceDistribution{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if v, err := s.backend.UsersCount(gctx); err == nil {
			data.UserCount = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.BookingsCount(gctx); err == nil {
			data.BookingCount = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.PaymentsTotal(gctx); err == nil {
			data.Revenue = view.FormatMoney(v.Total)
			data.RevenueToday = view.FormatMoney(v.Today)
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.BookingTrends(gctx); err == nil {
			data.TrendChart = view.TrendChart(v)
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.ServiceDistribution(gctx); err == nil {
			data.DistributionChart = view.DistributionChart(v)
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.ListServices(gctx); err == nil {
			for _, svc := range v {
				if svc.Active {
					data.ServiceCount++
				}
			}
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.ListBookings(gctx); err == nil {
			data.RecentBookings = recentBookings(v, now)
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.backend.ListUsers(gctx); err == nil {
			data.RecentUsers = recentUsers(v, now)
		}
		return nil
	})
	_ = g.Wait()

	s.render(w, r, "dashboard", "Dashboard", data)
}

const recentLimit = 5

func recentBookings(bookings []models.Booking, now time.Time) []recentEntry {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	entries := make([]recentEntry, 0, recentLimit)
	for i := range bookings {
		if i == recentLimit {
			break
		}
		b := &bookings[i]
		entries = append(entries, recentEntry{
			Customer: b.CustomerName(),
			Service:  b.ServiceName(),
			When:     view.RelativeTime(b.CreatedAt, now),
		})
	}
	return entries
}

func recentUsers(users []models.User, now time.Time) []recentEntry {
	sort.Slice(users, func(i, j int) bool {
		return users[i].DateJoined.After(users[j].DateJoined)
	})
	entries := make([]recentEntry, 0, recentLimit)
	for i, u := range users {
		if i == recentLimit {
			break
		}
		entries = append(entries, recentEntry{
			Email: u.Email,
			When:  view.RelativeTime(u.DateJoined, now),
		})
	}
	return entries
}

type paymentsData struct {
	Total  string
	Today  string
	Week   string
	Month  string
	PayPal string
	DVLA   string

	Table    view.Table
	BasePath string
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := paymentsData{
		Total: "-", Today: "-", Week: "-", Month: "-", PayPal: "-", DVLA: "-",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if v, err := s.backend.PaymentsTotal(gctx); err == nil {
			data.Total = view.FormatMoney(v.Total)
			data.Today = view.FormatMoney(v.Today)
			data.Week = view.FormatMoney(v.Week)
			data.Month = view.FormatMoney(v.Month)
			data.PayPal = view.FormatMoney(v.PayPal)
			data.DVLA = view.FormatMoney(v.DVLA)
		}
		return nil
	})
	g.Go(func() error {
		bookings, err := s.backend.ListBookings(gctx)
		if err != nil {
			data.Table = unableTable(view.PaymentsTable(nil).Columns, "payments")
			return nil
		}
		data.Table = view.PaymentsTable(bookings)
		return nil
	})
	_ = g.Wait()

	s.render(w, r, "payments", "Payments", data)
}

type reportsData struct {
	UpdatedAt    string
	UserCount    int
	BookingCount int
	ServiceCount int
	Revenue      string
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	snap := s.refresher.Snapshot()
	updated := "never"
	if !snap.UpdatedAt.IsZero() {
		updated = view.FormatDateTime(snap.UpdatedAt)
	}
	s.render(w, r, "reports", "Reports", reportsData{
		UpdatedAt:    updated,
		UserCount:    snap.UserCount.Total,
		BookingCount: snap.BookingCount.Total,
		ServiceCount: len(snap.Services),
		Revenue:      view.FormatMoney(snap.Payments.Total),
	})
}

// archiveExport keeps a copy of generated workbooks on disk. Best
// effort: a full exports directory never blocks the download.
func (s *Server) archiveExport(name string, data []byte) {
	if s.cfg.Exports.Path == "" {
		return
	}
	if err := os.MkdirAll(s.cfg.Exports.Path, 0o755); err != nil {
		s.logger.Warn().Err(err).Msg("export directory unavailable")
		return
	}
	path := filepath.Join(s.cfg.Exports.Path, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("export archive failed")
		return
	}
	s.logger.Info().Str("path", path).Msg("export archived")
}

// handleExport serves snapshot downloads like /export/users.csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	entity, ext, ok := strings.Cut(file, ".")
	if !ok {
		http.NotFound(w, r)
		return
	}

	snap := s.refresher.Snapshot()
	var table view.Table
	var sheet string
	switch entity {
	case "users":
		table, sheet = view.UsersTable(snap.Users), "Users"
	case "bookings":
		table, sheet = view.BookingsTable(snap.Bookings), "Bookings"
	case "services":
		table, sheet = view.ServicesTable(snap.Services), "Services"
	default:
		http.NotFound(w, r)
		return
	}

	switch ext {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(entity, "csv")+`"`)
		if err := export.WriteCSV(w, table); err != nil {
			s.logger.Error().Err(err).Str("entity", entity).Msg("csv export failed")
		}
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, table, sheet); err != nil {
			s.logger.Error().Err(err).Str("entity", entity).Msg("xlsx export failed")
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		name := export.Filename(entity, "xlsx")
		s.archiveExport(name, buf.Bytes())
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = buf.WriteTo(w)
	default:
		http.NotFound(w, r)
	}
}
