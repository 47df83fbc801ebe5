package routes

import (
	"net/http"

	"github.com/ombati/slot-scheduler/internal/api/handlers"
	"github.com/ombati/slot-scheduler/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
	}
}

// Setup registers all routes and returns the wrapped handler
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("GET /api/availability/check", r.availabilityHandler.CheckSlot)
	r.mux.HandleFunc("GET /api/availability/day", r.availabilityHandler.DaySlots)
	r.mux.HandleFunc("GET /api/availability/next", r.availabilityHandler.NextSlot)

	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.BookSlot)
	r.mux.HandleFunc("GET /api/bookings/{id}", r.bookingHandler.GetBooking)
	r.mux.HandleFunc("DELETE /api/bookings/{id}", r.bookingHandler.CancelBooking)

	r.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return middleware.LoggingMiddleware(r.mux)
}
