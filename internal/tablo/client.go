package tablo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client talks to the Tablo platform API on behalf of one authenticated
// tenant session. Construct one per session and pass it by reference;
// it carries no ambient global state.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	accessToken string
	userAgent   string
	log         *logrus.Logger
}

// Options configures a new API client.
type Options struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Logger      *logrus.Logger
}

// New creates a Tablo API client. AccessToken may be empty for the
// credential exchange itself; every other call sends it as a bearer token.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL not set (run `tablo config set --base-url ...`)")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "tablo"
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		accessToken: opts.AccessToken,
		userAgent:   ua,
		log:         log,
	}, nil
}

// SetAccessToken swaps the bearer token, e.g. right after login.
func (c *Client) SetAccessToken(token string) { c.accessToken = token }

// Login exchanges staff credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.sendJSON(ctx, http.MethodPost, "auth/login", body, &out); err != nil {
		return out, err
	}
	if out.Token == "" {
		return out, errors.New("auth/login: response missing token")
	}
	return out, nil
}

// Me fetches the authenticated staff profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.getJSON(ctx, "users/me", nil, &out)
	return out, err
}

// Orders fetches the full current order list for a tenant.
func (c *Client) Orders(ctx context.Context, restaurantID int64) ([]Order, error) {
	var out []Order
	path := fmt.Sprintf("orders/by-restaurant/%d", restaurantID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// KitchenOrders fetches the active-order subset the kitchen works from.
// The backend already excludes DELIVERED and CANCELLED orders here.
func (c *Client) KitchenOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.getJSON(ctx, "orders/by-restaurant/kitchen", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus issues the status-change command. The returned order
// is authoritative.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) (Order, error) {
	var out Order
	path := fmt.Sprintf("orders/%d/status", orderID)
	err := c.sendJSON(ctx, http.MethodPatch, path, map[string]OrderStatus{"status": status}, &out)
	return out, err
}

// Reservations fetches the tenant's reservations.
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	var out []Reservation
	if err := c.getJSON(ctx, "reservations/by-restaurant", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateReservationStatus confirms or cancels a reservation.
func (c *Client) UpdateReservationStatus(ctx context.Context, reservationID int64, status ReservationStatus) (Reservation, error) {
	var out Reservation
	path := fmt.Sprintf("reservations/%d/status", reservationID)
	err := c.sendJSON(ctx, http.MethodPatch, path, map[string]ReservationStatus{"status": status}, &out)
	return out, err
}

// Menu fetches the tenant's menu items.
func (c *Client) Menu(ctx context.Context, restaurantID int64) ([]MenuItem, error) {
	var out []MenuItem
	path := fmt.Sprintf("restaurants/%d/menu", restaurantID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMenuItemAvailability toggles whether a menu item can be ordered.
func (c *Client) SetMenuItemAvailability(ctx context.Context, itemID int64, available bool) (MenuItem, error) {
	var out MenuItem
	path := fmt.Sprintf("menu-items/%d", itemID)
	err := c.sendJSON(ctx, http.MethodPatch, path, map[string]bool{"available": available}, &out)
	return out, err
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	return c.do(req, path, out)
}

// sendJSON performs a request with a JSON body and decodes the response.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": req.Method, "path": path}).
			WithError(err).Debug("api request failed")
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode JSON: %w", path, err)
	}
	return nil
}
