package backend

import (
	"context"
	"fmt"
	"net/http"

	"autoadmin/internal/models"
)

// Users

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/users/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.User](raw), nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/users/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	user, err := decodeObject[models.User](raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, payload models.UserPayload) error {
	_, err := c.Call(ctx, http.MethodPost, "/users/", payload)
	return err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, payload models.UserPayload) error {
	_, err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/users/%d/", id), payload)
	return err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/", id), nil)
	return err
}

func (c *Client) UsersCount(ctx context.Context) (models.UserCount, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/users/count/", nil)
	if err != nil {
		return models.UserCount{}, err
	}
	return decodeObject[models.UserCount](raw)
}

// Bookings

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/bookings/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Booking](raw), nil
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	booking, err := decodeObject[models.Booking](raw)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CreateBooking(ctx context.Context, payload models.BookingPayload) error {
	_, err := c.Call(ctx, http.MethodPost, "/bookings/", payload)
	return err
}

func (c *Client) UpdateBooking(ctx context.Context, id int64, payload models.BookingPayload) error {
	_, err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/bookings/%d/", id), payload)
	return err
}

func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d/", id), nil)
	return err
}

func (c *Client) BookingsCount(ctx context.Context) (models.BookingCount, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/bookings/count/", nil)
	if err != nil {
		return models.BookingCount{}, err
	}
	return decodeObject[models.BookingCount](raw)
}

func (c *Client) BookingTrends(ctx context.Context) (models.TrendSeries, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/bookings/trends/", nil)
	if err != nil {
		return models.TrendSeries{}, err
	}
	return decodeObject[models.TrendSeries](raw)
}

func (c *Client) ServiceDistribution(ctx context.Context) (models.ServiceDistribution, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/bookings/service-distribution/", nil)
	if err != nil {
		return models.ServiceDistribution{}, err
	}
	return decodeObject[models.ServiceDistribution](raw)
}

// Services

func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/services/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Service](raw), nil
}

func (c *Client) GetService(ctx context.Context, id int64) (*models.Service, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/services/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	service, err := decodeObject[models.Service](raw)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *Client) CreateService(ctx context.Context, payload models.ServicePayload) error {
	_, err := c.Call(ctx, http.MethodPost, "/services/", payload)
	return err
}

func (c *Client) UpdateService(ctx context.Context, id int64, payload models.ServicePayload) error {
	_, err := c.Call(ctx, http.MethodPut, fmt.Sprintf("/services/%d/", id), payload)
	return err
}

func (c *Client) DeleteService(ctx context.Context, id int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/services/%d/", id), nil)
	return err
}

// Payments

func (c *Client) PaymentsTotal(ctx context.Context) (models.PaymentSummary, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/payments/total/", nil)
	if err != nil {
		return models.PaymentSummary{}, err
	}
	return decodeObject[models.PaymentSummary](raw)
}
