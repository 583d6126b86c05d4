package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"autoadmin/internal/backend"
	"autoadmin/internal/paypal"
)

// JSON endpoints the public booking frontend talks to. Pure relay: the
// backend validates, creates the PayPal order and captures it.

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// relayError keeps backend validation errors (and their status codes)
// intact; transport failures become a 502.
func (s *Server) relayError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	s.logger.Error().Err(err).Msg("checkout relay failed")
	writeError(w, http.StatusBadGateway, "booking service unavailable")
}

func (s *Server) handleCheckoutBooking(w http.ResponseWriter, r *http.Request) {
	var req paypal.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.checkout.CreateBooking(r.Context(), req)
	if err != nil {
		s.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleCheckoutCashBooking(w http.ResponseWriter, r *http.Request) {
	var req paypal.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.checkout.CreateCashBooking(r.Context(), req)
	if err != nil {
		s.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

type orderRequest struct {
	BookingID     int64  `json:"booking_id"`
	CustomerEmail string `json:"customer_email"`
}

func (s *Server) handleCheckoutCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BookingID <= 0 {
		writeError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	orderID, err := s.checkout.CreateOrder(r.Context(), req.BookingID, req.CustomerEmail)
	if err != nil {
		s.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID})
}

type captureRequest struct {
	BookingID     int64  `json:"booking_id"`
	PayPalOrderID string `json:"paypal_order_id"`
	CustomerEmail string `json:"customer_email"`
}

func (s *Server) handleCheckoutCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BookingID <= 0 || req.PayPalOrderID == "" {
		writeError(w, http.StatusBadRequest, "booking_id and paypal_order_id are required")
		return
	}

	result, err := s.checkout.Capture(r.Context(), req.BookingID, req.PayPalOrderID, req.CustomerEmail)
	if err != nil {
		s.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
