// Package mockapi is a small in-memory stand-in for the Tablo platform
// API, used by `tablo dev mock-api` for demos and manual testing of the
// polling views without a real backend.
package mockapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/tablo-hq/tablo/internal/orderboard"
	"github.com/tablo-hq/tablo/internal/tablo"
)

// DemoToken is the bearer token the mock server accepts.
const DemoToken = "demo-token"

// DemoEmail/DemoPassword are the credentials `POST /auth/login` accepts.
const (
	DemoEmail    = "demo@tablo.test"
	DemoPassword = "demo"
)

// Server holds the mock state and the echo instance serving it.
type Server struct {
	echo *echo.Echo
	log  *logrus.Logger

	mu           sync.Mutex
	orders       map[int64]*tablo.Order
	reservations map[int64]*tablo.Reservation
	menu         map[int64]*tablo.MenuItem
	nextOrderID  int64
}

// New creates a mock server with an empty state.
func New(log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		log:          log,
		orders:       map[int64]*tablo.Order{},
		reservations: map[int64]*tablo.Reservation{},
		menu:         map[int64]*tablo.MenuItem{},
		nextOrderID:  1,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST("/auth/login", s.handleLogin)

	api := e.Group("", s.requireBearer)
	api.GET("/users/me", s.handleMe)
	api.GET("/orders/by-restaurant/kitchen", s.handleKitchenOrders)
	api.GET("/orders/by-restaurant/:id", s.handleOrders)
	api.PATCH("/orders/:id/status", s.handleOrderStatus)
	api.GET("/reservations/by-restaurant", s.handleReservations)
	api.PATCH("/reservations/:id/status", s.handleReservationStatus)
	api.GET("/restaurants/:id/menu", s.handleMenu)
	api.PATCH("/menu-items/:id", s.handleMenuItem)

	s.echo = e
	return s
}

// Handler exposes the HTTP handler, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer "+DemoToken {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid bearer token")
		}
		return next(c)
	}
}

func (s *Server) handleLogin(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if body.Email != DemoEmail || body.Password != DemoPassword {
		return echo.NewHTTPError(http.StatusUnauthorized, "bad credentials")
	}
	return c.JSON(http.StatusOK, tablo.LoginResponse{Token: DemoToken})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, tablo.User{
		ID:             1,
		Email:          DemoEmail,
		Role:           "RESTAURANT_ADMIN",
		RestaurantID:   1,
		RestaurantName: "Demo Trattoria",
	})
}

func (s *Server) handleOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tablo.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleKitchenOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tablo.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !o.Status.Terminal() {
			out = append(out, *o)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleOrderStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	target, ok := tablo.ParseOrderStatus(body.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+body.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such order")
	}
	if !orderboard.CanTransition(o.Status, target) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			"illegal transition "+string(o.Status)+" -> "+string(target))
	}
	o.Status = target
	s.log.WithFields(logrus.Fields{"order": id, "status": target}).Info("order status updated")
	return c.JSON(http.StatusOK, *o)
}

func (s *Server) handleReservations(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tablo.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, *r)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleReservationStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}
	var body struct {
		Status tablo.ReservationStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if body.Status != tablo.ReservationConfirmed && body.Status != tablo.ReservationCancelled {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be CONFIRMED or CANCELLED")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such reservation")
	}
	r.Status = body.Status
	return c.JSON(http.StatusOK, *r)
}

func (s *Server) handleMenu(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tablo.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		out = append(out, *m)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleMenuItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&body); err != nil || body.Available == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body must set available")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menu[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such menu item")
	}
	m.Available = *body.Available
	return c.JSON(http.StatusOK, *m)
}

// InjectOrder adds a fresh PENDING order, as if a customer just ordered.
func (s *Server) InjectOrder(items []tablo.LineItem, total float64) tablo.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextOrderID
	s.nextOrderID++
	o := &tablo.Order{
		ID:          id,
		OrderNumber: 100 + id,
		Status:      tablo.StatusPending,
		Items:       items,
		TotalPrice:  total,
	}
	s.orders[id] = o
	return *o
}

// SimulateArrivals injects a new demo order every interval until stop is
// closed, so the kitchen bell has something to ring about.
func (s *Server) SimulateArrivals(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			o := s.InjectOrder([]tablo.LineItem{
				{MenuItemID: 1, Name: "Margherita", Quantity: 1},
			}, 11.5)
			s.log.WithField("order", o.ID).Info("simulated new order")
		}
	}
}
