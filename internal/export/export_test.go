package export

import (
	"bytes"
	"strings"
	"testing"

	"autoadmin/internal/models"
	"autoadmin/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() view.Table {
	return view.BookingsTable([]models.Booking{
		{
			ID:                7,
			CustomerFirstName: "Ada",
			CustomerLastName:  "Lovelace",
			ServiceType:       "MOT",
			BookingDate:       "2025-03-10",
			Amount:            54.85,
			Status:            "pending",
			PaymentStatus:     "completed",
		},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Customer,Service,Date,Amount,Status,Payment", lines[0])
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[1], "£54.85")
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, view.UsersTable(nil)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable(), "Bookings"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Customer", rows[0][1])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
}

func TestFilename(t *testing.T) {
	name := Filename("users", "csv")
	assert.True(t, strings.HasPrefix(name, "users_export_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
