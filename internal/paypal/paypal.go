// Package paypal relays the public checkout flow to the backend. The
// PayPal order itself is created and captured server-side; this client
// only shapes the two calls the hosted button needs.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"autoadmin/internal/backend"
)

const (
	MethodPayPal = "paypal"
	MethodCash   = "cash"

	defaultCurrency = "GBP"
)

// BookingRequest is the checkout booking payload. Vehicle fields come
// straight from the booking form.
type BookingRequest struct {
	ServiceID           int     `json:"service_id"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	CustomerFirstName   string  `json:"customer_first_name"`
	CustomerLastName    string  `json:"customer_last_name"`
	CustomerEmail       string  `json:"customer_email"`
	CustomerPhone       string  `json:"customer_phone"`
	VehicleRegistration string  `json:"vehicle_registration"`
	VehicleMake         string  `json:"vehicle_make"`
	VehicleModel        string  `json:"vehicle_model"`
	VehicleYear         string  `json:"vehicle_year"`
	PaymentAmount       float64 `json:"payment_amount"`
	PaymentCurrency     string  `json:"payment_currency"`
	PaymentMethod       string  `json:"payment_method"`
	PaymentStatus       string  `json:"payment_status,omitempty"`
}

// Booking is the created booking record; only the id matters to the
// checkout flow.
type Booking struct {
	ID int64 `json:"id"`
}

// Order is the created PayPal order.
type Order struct {
	OrderID string `json:"order_id"`
}

// CaptureResult reports the outcome of a capture call.
type CaptureResult struct {
	Status    string `json:"status"`
	BookingID int64  `json:"booking_id"`
}

type captureRequest struct {
	BookingID     int64  `json:"booking_id"`
	PayPalOrderID string `json:"paypal_order_id,omitempty"`
	CustomerEmail string `json:"customer_email"`
	Action        string `json:"action"`
}

// Client drives the checkout endpoints through the shared backend
// client.
type Client struct {
	backend *backend.Client
}

func NewClient(b *backend.Client) *Client {
	return &Client{backend: b}
}

// CreateBooking creates the booking record that precedes payment.
// Currency defaults to GBP and method to paypal.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	if req.PaymentCurrency == "" {
		req.PaymentCurrency = defaultCurrency
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = MethodPayPal
	}

	raw, err := c.backend.Call(ctx, http.MethodPost, "/paypal/bookings/", req)
	if err != nil {
		return nil, err
	}

	var booking Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		return nil, fmt.Errorf("paypal: decode booking: %w", err)
	}
	return &booking, nil
}

// CreateCashBooking creates a pay-on-arrival booking; no PayPal order
// is involved.
func (c *Client) CreateCashBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	req.PaymentMethod = MethodCash
	if req.PaymentStatus == "" {
		req.PaymentStatus = "pending"
	}
	return c.CreateBooking(ctx, req)
}

// CreateOrder asks the backend to create a PayPal order for a booking
// and returns the order id the hosted button needs.
func (c *Client) CreateOrder(ctx context.Context, bookingID int64, customerEmail string) (string, error) {
	raw, err := c.backend.Call(ctx, http.MethodPost, "/paypal/capture-payment/", captureRequest{
		BookingID:     bookingID,
		CustomerEmail: customerEmail,
		Action:        "create",
	})
	if err != nil {
		return "", err
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return "", fmt.Errorf("paypal: decode order: %w", err)
	}
	if order.OrderID == "" {
		return "", fmt.Errorf("paypal: backend returned no order id")
	}
	return order.OrderID, nil
}

// Capture captures an approved PayPal order against its booking.
func (c *Client) Capture(ctx context.Context, bookingID int64, orderID, customerEmail string) (*CaptureResult, error) {
	raw, err := c.backend.Call(ctx, http.MethodPost, "/paypal/capture-payment/", captureRequest{
		BookingID:     bookingID,
		PayPalOrderID: orderID,
		CustomerEmail: customerEmail,
		Action:        "capture",
	})
	if err != nil {
		return nil, err
	}

	var result CaptureResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("paypal: decode capture result: %w", err)
	}
	return &result, nil
}
