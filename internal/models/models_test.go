package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `54.85`, 54.85},
		{"decimal string", `"54.85"`, 54.85},
		{"integer string", `"120"`, 120},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Money
			require.NoError(t, json.Unmarshal([]byte(tc.in), &m))
			assert.InDelta(t, tc.want, float64(m), 0.0001)
		})
	}
}

func TestMoneyUnmarshalRejectsGarbage(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"fifty"`), &m))
}

func TestBookingServiceNameFallbacks(t *testing.T) {
	b := &Booking{Service: &Service{Name: "MOT Test"}, ServiceType: "ignored"}
	assert.Equal(t, "MOT Test", b.ServiceName())

	b = &Booking{ServiceType: "DVLA Check"}
	assert.Equal(t, "DVLA Check", b.ServiceName())

	b = &Booking{}
	assert.Equal(t, "Unknown Service", b.ServiceName())
}

func TestBookingCustomerName(t *testing.T) {
	b := &Booking{CustomerFirstName: "John", CustomerLastName: "Smith"}
	assert.Equal(t, "John Smith", b.CustomerName())

	b = &Booking{CustomerFirstName: "John"}
	assert.Equal(t, "John", b.CustomerName())

	b = &Booking{}
	assert.Equal(t, "Unknown Customer", b.CustomerName())
}

func TestBookingDecodeToleratesPartialRecords(t *testing.T) {
	raw := `{"id": 7, "service": {"id": 3, "name": "Full Service", "price": "120.00"}, "amount": "54.85", "status": "pending"}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, "Full Service", b.ServiceName())
	assert.InDelta(t, 54.85, float64(b.Amount), 0.0001)
	assert.Equal(t, StatusPending, b.Status)
	assert.False(t, b.IsPaid)
	assert.Empty(t, b.BookingTime)
}

func TestUserPayloadOmitsEmptyPassword(t *testing.T) {
	data, err := json.Marshal(UserPayload{Email: "a@b.co"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")

	data, err = json.Marshal(UserPayload{Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "password")
}
