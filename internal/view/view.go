// Package view builds display-ready models from backend entities. All
// functions are pure: they never touch templates or the network.
package view

import (
	"fmt"
	"strings"
	"time"

	"autoadmin/internal/models"
)

var statusBadges = map[string]string{
	models.StatusPending:   "warning",
	models.StatusConfirmed: "success",
	models.StatusCancelled: "danger",
	models.StatusCompleted: "primary",
}

var paymentBadges = map[string]string{
	models.PaymentPending:   "warning",
	models.PaymentCompleted: "success",
	models.PaymentFailed:    "danger",
	models.PaymentRefunded:  "info",
}

// StatusBadge maps a booking status to a badge class. Unknown statuses
// get the neutral class rather than an error.
func StatusBadge(status string) string {
	if class, ok := statusBadges[strings.ToLower(status)]; ok {
		return class
	}
	return "secondary"
}

// PaymentBadge maps a payment status to a badge class.
func PaymentBadge(status string) string {
	if class, ok := paymentBadges[strings.ToLower(status)]; ok {
		return class
	}
	return "secondary"
}

// FormatMoney renders an amount as pounds with two decimals.
func FormatMoney(amount models.Money) string {
	return fmt.Sprintf("£%.2f", float64(amount))
}

// FormatDate renders a backend date (yyyy-mm-dd) as dd/mm/yyyy. Values
// that do not parse are shown as-is; empty dates become a dash.
func FormatDate(date string) string {
	if date == "" {
		return "-"
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

// RelativeTime renders how long ago t was, for the recent-activity
// widgets. Anything older than a week falls back to the date.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return t.Format("02/01/2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Cell is one table cell. Badge, when set, is the badge class the cell
// renders with.
type Cell struct {
	Text  string
	Badge string
}

// Row is one table row; ID feeds edit/delete links.
type Row struct {
	ID    int64
	Cells []Cell
}

// Table is a rendered entity list. EmptyMessage is shown as a single
// full-width row when Rows is empty.
type Table struct {
	Columns      []string
	Rows         []Row
	EmptyMessage string
}

func text(s string) Cell { return Cell{Text: s} }

func yesNo(b bool) Cell {
	if b {
		return Cell{Text: "Yes", Badge: "success"}
	}
	return Cell{Text: "No", Badge: "secondary"}
}

// UsersTable builds the users list view.
func UsersTable(users []models.User) Table {
	t := Table{
		Columns:      []string{"ID", "Email", "Name", "Active", "Staff", "Joined", "Bookings"},
		EmptyMessage: "No users found",
	}
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = "-"
		}
		t.Rows = append(t.Rows, Row{
			ID: u.ID,
			Cells: []Cell{
				text(fmt.Sprintf("%d", u.ID)),
				text(u.Email),
				text(name),
				yesNo(u.IsActive),
				yesNo(u.IsStaff),
				text(FormatDateTime(u.DateJoined)),
				text(fmt.Sprintf("%d", u.BookingCount)),
			},
		})
	}
	return t
}

// BookingsTable builds the bookings list view.
func BookingsTable(bookings []models.Booking) Table {
	t := Table{
		Columns:      []string{"ID", "Customer", "Service", "Date", "Amount", "Status", "Payment"},
		EmptyMessage: "No bookings found",
	}
	for i := range bookings {
		b := &bookings[i]
		t.Rows = append(t.Rows, Row{
			ID: b.ID,
			Cells: []Cell{
				text(fmt.Sprintf("%d", b.ID)),
				text(b.CustomerName()),
				text(b.ServiceName()),
				text(FormatDate(b.BookingDate)),
				text(FormatMoney(b.Amount)),
				{Text: b.Status, Badge: StatusBadge(b.Status)},
				{Text: b.PaymentStatus, Badge: PaymentBadge(b.PaymentStatus)},
			},
		})
	}
	return t
}

// ServicesTable builds the services list view.
func ServicesTable(services []models.Service) Table {
	t := Table{
		Columns:      []string{"ID", "Code", "Name", "Price", "Active"},
		EmptyMessage: "No services found",
	}
	for _, s := range services {
		t.Rows = append(t.Rows, Row{
			ID: s.ID,
			Cells: []Cell{
				text(fmt.Sprintf("%d", s.ID)),
				text(s.Code),
				text(s.Name),
				text(FormatMoney(s.Price)),
				yesNo(s.Active),
			},
		})
	}
	return t
}

// PaymentsTable lists completed payments drawn from the booking list.
func PaymentsTable(bookings []models.Booking) Table {
	t := Table{
		Columns:      []string{"Booking", "Customer", "Service", "Amount", "Status", "Received"},
		EmptyMessage: "No payments found",
	}
	for i := range bookings {
		b := &bookings[i]
		if b.PaymentStatus != models.PaymentCompleted {
			continue
		}
		t.Rows = append(t.Rows, Row{
			ID: b.ID,
			Cells: []Cell{
				text(fmt.Sprintf("#%d", b.ID)),
				text(b.CustomerName()),
				text(b.ServiceName()),
				text(FormatMoney(b.Amount)),
				{Text: b.PaymentStatus, Badge: PaymentBadge(b.PaymentStatus)},
				text(FormatDateTime(b.CreatedAt)),
			},
		})
	}
	return t
}

// Filter keeps rows where any cell contains the query, case-insensitive.
// An empty query keeps everything.
func Filter(t Table, query string) Table {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return t
	}
	filtered := Table{Columns: t.Columns, EmptyMessage: t.EmptyMessage}
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if strings.Contains(strings.ToLower(cell.Text), query) {
				filtered.Rows = append(filtered.Rows, row)
				break
			}
		}
	}
	return filtered
}

// Series is one plotted line or dataset.
type Series struct {
	Name string
	Data []float64
}

// Chart is a renderable chart model.
type Chart struct {
	Labels []string
	Series []Series
}

// noDataChart is the placeholder shown when the backend returns no
// series at all.
func noDataChart(name string) Chart {
	return Chart{
		Labels: []string{"No Data"},
		Series: []Series{{Name: name, Data: []float64{0}}},
	}
}

// TrendChart builds the booking-trend line chart. Newer backends serve
// separate paypal/dvla series; older ones a single combined series.
func TrendChart(trends models.TrendSeries) Chart {
	if len(trends.PayPalData) > 0 || len(trends.DVLAData) > 0 {
		return Chart{
			Labels: trends.Labels,
			Series: []Series{
				{Name: "PayPal", Data: trends.PayPalData},
				{Name: "DVLA", Data: trends.DVLAData},
			},
		}
	}
	if len(trends.Data) > 0 {
		return Chart{
			Labels: trends.Labels,
			Series: []Series{{Name: "Bookings", Data: trends.Data}},
		}
	}
	return noDataChart("Bookings")
}

// DistributionChart builds the service-distribution doughnut.
func DistributionChart(dist models.ServiceDistribution) Chart {
	if len(dist.Labels) == 0 || len(dist.Values) == 0 {
		return noDataChart("Services")
	}
	return Chart{
		Labels: dist.Labels,
		Series: []Series{{Name: "Services", Data: dist.Values}},
	}
}
