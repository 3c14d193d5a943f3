package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mlukyanov/airticket/api"
	"github.com/mlukyanov/airticket/config"
	"github.com/mlukyanov/airticket/internal/ratelimit"
	"github.com/mlukyanov/airticket/internal/service/booking"
	"github.com/mlukyanov/airticket/internal/service/flights"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, limiter *ratelimit.KeyedLimiter) error {
	router := newRouter(cfg, flightSvc, bookingSvc, limiter)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, limiter *ratelimit.KeyedLimiter) *gin.Engine {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	api.NewFlightHandler(flightSvc).Register(v1.Group("/flights"))
	api.NewOrderHandler(bookingSvc, limiter).Register(v1.Group("/orders"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		swaggerHandler := httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))
		router.GET("/docs/*any", gin.WrapH(http.StripPrefix("/docs", swaggerHandler)))
	}

	return router
}
