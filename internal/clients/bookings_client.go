// internal/clients/bookings_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/httpx"
)

// BookingsClient drives the item and booking endpoints on behalf of a user.
type BookingsClient struct {
	base
}

func NewBookingsClient(baseURL string, hc *http.Client) *BookingsClient {
	return &BookingsClient{base: newBase(baseURL, hc)}
}

func (c *BookingsClient) AddItem(ctx context.Context, owner uuid.UUID, name, description string, available bool) (*catalog.ItemDTO, error) {
	var item catalog.ItemDTO
	in := catalog.CreateItemRequest{Name: name, Description: description, Available: &available}
	if err := c.do(ctx, http.MethodPost, "/items", owner, in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *BookingsClient) GetItem(ctx context.Context, user, itemID uuid.UUID) (*catalog.ItemDetailsDTO, error) {
	var item catalog.ItemDetailsDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%s", itemID), user, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *BookingsClient) Book(ctx context.Context, booker, itemID uuid.UUID, start, end time.Time) (*booking.ViewDTO, error) {
	var v booking.ViewDTO
	in := booking.CreateRequest{ItemID: &itemID, Start: httpx.NewDateTime(start), End: httpx.NewDateTime(end)}
	if err := c.do(ctx, http.MethodPost, "/bookings", booker, in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *BookingsClient) Decide(ctx context.Context, owner, bookingID uuid.UUID, approved bool) (*booking.ViewDTO, error) {
	var v booking.ViewDTO
	path := fmt.Sprintf("/bookings/%s?approved=%s", bookingID, strconv.FormatBool(approved))
	if err := c.do(ctx, http.MethodPatch, path, owner, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns the user's bookings, or the bookings of the user's items when
// owner is set.
func (c *BookingsClient) List(ctx context.Context, user uuid.UUID, owner bool, state string, from, size int) ([]booking.ViewDTO, error) {
	path := "/bookings"
	if owner {
		path += "/owner"
	}
	q := url.Values{}
	q.Set("state", state)
	q.Set("from", strconv.Itoa(from))
	q.Set("size", strconv.Itoa(size))

	var out []booking.ViewDTO
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), user, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
