package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Booking statuses as served by the backend API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Money tolerates both JSON numbers and DRF-style decimal strings
// ("54.85"). Null or missing decodes to zero.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*m = Money(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Money(v)
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(m))
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined"`
	BookingCount int       `json:"booking_count"`
}

// Service is a catalog entry offered for booking.
type Service struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
	Active      bool   `json:"active"`
}

// Booking carries either a nested service object or a bare service_type
// string depending on the backend serializer; ServiceName resolves both.
type Booking struct {
	ID                int64     `json:"id"`
	Service           *Service  `json:"service"`
	ServiceType       string    `json:"service_type"`
	BookingDate       string    `json:"booking_date"`
	BookingTime       string    `json:"booking_time"`
	CustomerFirstName string    `json:"customer_first_name"`
	CustomerLastName  string    `json:"customer_last_name"`
	CustomerEmail     string    `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	CustomerAddress   string    `json:"customer_address"`
	Amount            Money     `json:"amount"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	IsPaid            bool      `json:"is_paid"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
}

// ServiceName returns the nested service name, falling back to the
// flat service_type field.
func (b *Booking) ServiceName() string {
	if b.Service != nil && b.Service.Name != "" {
		return b.Service.Name
	}
	if b.ServiceType != "" {
		return b.ServiceType
	}
	return "Unknown Service"
}

// CustomerName joins the customer name fields, with a placeholder when
// the record carries neither.
func (b *Booking) CustomerName() string {
	if b.CustomerFirstName == "" && b.CustomerLastName == "" {
		return "Unknown Customer"
	}
	if b.CustomerLastName == "" {
		return b.CustomerFirstName
	}
	return b.CustomerFirstName + " " + b.CustomerLastName
}

// PaymentSummary is the server-side revenue aggregate; never stored here.
type PaymentSummary struct {
	Total  Money `json:"total"`
	Today  Money `json:"today"`
	Week   Money `json:"week"`
	Month  Money `json:"month"`
	PayPal Money `json:"paypal"`
	DVLA   Money `json:"dvla"`
}

type UserCount struct {
	Total       int `json:"total"`
	NewThisWeek int `json:"new_this_week"`
}

type BookingCount struct {
	Total int `json:"total"`
	Today int `json:"today"`
}

// TrendSeries is the booking-trend chart payload. Older backend builds
// served a single "data" series instead of the paypal/dvla split.
type TrendSeries struct {
	Labels     []string  `json:"labels"`
	PayPalData []float64 `json:"paypal_data"`
	DVLAData   []float64 `json:"dvla_data"`
	Data       []float64 `json:"data"`
}

// ServiceDistribution is the doughnut chart payload.
type ServiceDistribution struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BookingPayload is the write shape for booking create/update calls.
type BookingPayload struct {
	ServiceID         int     `json:"service_id"`
	BookingDate       string  `json:"booking_date"`
	BookingTime       string  `json:"booking_time"`
	CustomerFirstName string  `json:"customer_first_name"`
	CustomerLastName  string  `json:"customer_last_name"`
	CustomerEmail     string  `json:"customer_email"`
	CustomerPhone     string  `json:"customer_phone"`
	CustomerAddress   string  `json:"customer_address"`
	Amount            float64 `json:"amount"`
	PaymentStatus     string  `json:"payment_status,omitempty"`
	IsPaid            bool    `json:"is_paid"`
	IsVerified        bool    `json:"is_verified"`
}

// ServicePayload is the write shape for service create/update calls.
type ServicePayload struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// UserPayload is the write shape for user create/update calls. Password
// is only sent when set.
type UserPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	IsStaff   bool   `json:"is_staff"`
	Password  string `json:"password,omitempty"`
}
