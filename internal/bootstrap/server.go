package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flightbooking/api"
	"flightbooking/config"
	"flightbooking/internal/auth"

	"github.com/gin-gonic/gin"
)

// Run builds the HTTP router, starts the server and blocks until the
// context is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.Config, manager *auth.Manager,
	authHandler *api.AuthHandler, flightHandler *api.FlightHandler, bookingHandler *api.BookingHandler) error {

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	root := router.Group("/api")
	authHandler.Register(root.Group("/auth"))
	flightHandler.Register(root.Group("/flights"))
	bookingHandler.RegisterPublic(root.Group("/bookings"))

	authed := root.Group("/bookings", manager.Authenticate())
	bookingHandler.Register(authed)

	admin := root.Group("/admin", manager.Authenticate(), auth.RequireAdmin())
	flightHandler.RegisterAdmin(admin)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
