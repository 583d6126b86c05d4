package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"autoadmin/internal/models"

	"github.com/go-chi/chi/v5"
)

// Form coercion helpers. The backend wants real ints, floats and bools,
// not the strings HTML forms submit.

func formInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return 0
	}
	return v
}

func formFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(name)), 64)
	if err != nil {
		return 0
	}
	return v
}

func formBool(r *http.Request, name string) bool {
	return r.FormValue(name) != ""
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// flashError turns a save/delete failure into a toast; the API error
// message is already human-readable.
func (s *Server) flashError(w http.ResponseWriter, action string, err error) {
	s.logger.Error().Err(err).Str("action", action).Msg("mutation failed")
	setFlash(w, "danger", fmt.Sprintf("Failed to %s: %v", action, err))
}

type confirmData struct {
	Entity  string
	ID      int64
	Summary string
	Action  string
	Cancel  string
}

func (s *Server) renderConfirm(w http.ResponseWriter, r *http.Request, entity string, id int64, summary, listPath string) {
	s.render(w, r, "confirm_delete", "Confirm delete", confirmData{
		Entity:  entity,
		ID:      id,
		Summary: summary,
		Action:  fmt.Sprintf("%s/%d/delete", listPath, id),
		Cancel:  listPath,
	})
}

// Bookings

type bookingFormData struct {
	ID                int64
	ServiceID         int64
	Services          []models.Service
	PaymentStatuses   []string
	BookingDate       string
	BookingTime       string
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerPhone     string
	CustomerAddress   string
	Amount            string
	PaymentStatus     string
	IsPaid            bool
	IsVerified        bool
}

var paymentStatuses = []string{
	models.PaymentPending,
	models.PaymentCompleted,
	models.PaymentFailed,
	models.PaymentRefunded,
}

func (s *Server) handleBookingForm(w http.ResponseWriter, r *http.Request) {
	data := bookingFormData{
		PaymentStatuses: paymentStatuses,
		PaymentStatus:   models.PaymentPending,
	}

	services, err := s.backend.ListServices(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("service list unavailable for booking form")
	}
	data.Services = services

	if idParam := chi.URLParam(r, "id"); idParam != "" {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		booking, err := s.backend.GetBooking(r.Context(), id)
		if err != nil {
			s.flashError(w, "load booking", err)
			http.Redirect(w, r, "/bookings", http.StatusSeeOther)
			return
		}
		data.ID = booking.ID
		if booking.Service != nil {
			data.ServiceID = booking.Service.ID
		}
		data.BookingDate = booking.BookingDate
		data.BookingTime = booking.BookingTime
		data.CustomerFirstName = booking.CustomerFirstName
		data.CustomerLastName = booking.CustomerLastName
		data.CustomerEmail = booking.CustomerEmail
		data.CustomerPhone = booking.CustomerPhone
		data.CustomerAddress = booking.CustomerAddress
		data.Amount = fmt.Sprintf("%.2f", float64(booking.Amount))
		data.PaymentStatus = booking.PaymentStatus
		data.IsPaid = booking.IsPaid
		data.IsVerified = booking.IsVerified
	}

	s.render(w, r, "booking_form", "Booking", data)
}

func (s *Server) handleBookingSave(w http.ResponseWriter, r *http.Request) {
	payload := models.BookingPayload{
		ServiceID:         formInt(r, "service_id"),
		BookingDate:       r.FormValue("booking_date"),
		BookingTime:       r.FormValue("booking_time"),
		CustomerFirstName: strings.TrimSpace(r.FormValue("customer_first_name")),
		CustomerLastName:  strings.TrimSpace(r.FormValue("customer_last_name")),
		CustomerEmail:     strings.TrimSpace(r.FormValue("customer_email")),
		CustomerPhone:     strings.TrimSpace(r.FormValue("customer_phone")),
		CustomerAddress:   strings.TrimSpace(r.FormValue("customer_address")),
		Amount:            formFloat(r, "amount"),
		PaymentStatus:     r.FormValue("payment_status"),
		IsPaid:            formBool(r, "is_paid"),
		IsVerified:        formBool(r, "is_verified"),
	}

	idValue := strings.TrimSpace(r.FormValue("id"))
	if idValue == "" {
		if err := s.backend.CreateBooking(r.Context(), payload); err != nil {
			s.flashError(w, "create booking", err)
			http.Redirect(w, r, "/bookings/new", http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "Booking created")
	} else {
		id, err := strconv.ParseInt(idValue, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := s.backend.UpdateBooking(r.Context(), id, payload); err != nil {
			s.flashError(w, "update booking", err)
			http.Redirect(w, r, fmt.Sprintf("/bookings/%d/edit", id), http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "Booking updated")
	}

	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

func (s *Server) handleBookingDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	summary := "The booking record will be removed."
	if booking, err := s.backend.GetBooking(r.Context(), id); err == nil {
		summary = fmt.Sprintf("%s, %s on %s.", booking.CustomerName(), booking.ServiceName(), booking.BookingDate)
	}
	s.renderConfirm(w, r, "booking", id, summary, "/bookings")
}

func (s *Server) handleBookingDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.backend.DeleteBooking(r.Context(), id); err != nil {
		s.flashError(w, "delete booking", err)
	} else {
		setFlash(w, "success", "Booking deleted")
	}
	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

// Services

type serviceFormData struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Price       string
	Active      bool
}

func (s *Server) handleServiceForm(w http.ResponseWriter, r *http.Request) {
	data := serviceFormData{Active: true}

	if idParam := chi.URLParam(r, "id"); idParam != "" {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		service, err := s.backend.GetService(r.Context(), id)
		if err != nil {
			s.flashError(w, "load service", err)
			http.Redirect(w, r, "/services", http.StatusSeeOther)
			return
		}
		data = serviceFormData{
			ID:          service.ID,
			Code:        service.Code,
			Name:        service.Name,
			Description: service.Description,
			Price:       fmt.Sprintf("%.2f", float64(service.Price)),
			Active:      service.Active,
		}
	}

	s.render(w, r, "service_form", "Service", data)
}

func (s *Server) handleServiceSave(w http.ResponseWriter, r *http.Request) {
	payload := models.ServicePayload{
		Code:        strings.TrimSpace(r.FormValue("code")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       formFloat(r, "price"),
		Active:      formBool(r, "active"),
	}

	idValue := strings.TrimSpace(r.FormValue("id"))
	if idValue == "" {
		if err := s.backend.CreateService(r.Context(), payload); err != nil {
			s.flashError(w, "create service", err)
			http.Redirect(w, r, "/services/new", http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "Service created")
	} else {
		id, err := strconv.ParseInt(idValue, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := s.backend.UpdateService(r.Context(), id, payload); err != nil {
			s.flashError(w, "update service", err)
			http.Redirect(w, r, fmt.Sprintf("/services/%d/edit", id), http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "Service updated")
	}

	http.Redirect(w, r, "/services", http.StatusSeeOther)
}

func (s *Server) handleServiceDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	summary := "The service will no longer be offered for booking."
	if service, err := s.backend.GetService(r.Context(), id); err == nil {
		summary = fmt.Sprintf("%s (%s) will no longer be offered for booking.", service.Name, service.Code)
	}
	s.renderConfirm(w, r, "service", id, summary, "/services")
}

func (s *Server) handleServiceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.backend.DeleteService(r.Context(), id); err != nil {
		s.flashError(w, "delete service", err)
	} else {
		setFlash(w, "success", "Service deleted")
	}
	http.Redirect(w, r, "/services", http.StatusSeeOther)
}

// Users

type userFormData struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	IsStaff   bool
}

func (s *Server) handleUserForm(w http.ResponseWriter, r *http.Request) {
	data := userFormData{IsActive: true}

	if idParam := chi.URLParam(r, "id"); idParam != "" {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		user, err := s.backend.GetUser(r.Context(), id)
		if err != nil {
			s.flashError(w, "load user", err)
			http.Redirect(w, r, "/users", http.StatusSeeOther)
			return
		}
		data = userFormData{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsActive:  user.IsActive,
			IsStaff:   user.IsStaff,
		}
	}

	s.render(w, r, "user_form", "User", data)
}

func (s *Server) handleUserSave(w http.ResponseWriter, r *http.Request) {
	payload := models.UserPayload{
		Email:     strings.TrimSpace(r.FormValue("email")),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		IsActive:  formBool(r, "is_active"),
		IsStaff:   formBool(r, "is_staff"),
		Password:  r.FormValue("password"),
	}

	idValue := strings.TrimSpace(r.FormValue("id"))
	if idValue == "" {
		if err := s.backend.CreateUser(r.Context(), payload); err != nil {
			s.flashError(w, "create user", err)
			http.Redirect(w, r, "/users/new", http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "User created")
	} else {
		id, err := strconv.ParseInt(idValue, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := s.backend.UpdateUser(r.Context(), id, payload); err != nil {
			s.flashError(w, "update user", err)
			http.Redirect(w, r, fmt.Sprintf("/users/%d/edit", id), http.StatusSeeOther)
			return
		}
		setFlash(w, "success", "User updated")
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (s *Server) handleUserDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	summary := "The account will be removed."
	if user, err := s.backend.GetUser(r.Context(), id); err == nil {
		summary = fmt.Sprintf("%s and their account data will be removed.", user.Email)
	}
	s.renderConfirm(w, r, "user", id, summary, "/users")
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.backend.DeleteUser(r.Context(), id); err != nil {
		s.flashError(w, "delete user", err)
	} else {
		setFlash(w, "success", "User deleted")
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
