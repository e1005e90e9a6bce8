// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/customerdelivery"
	"github.com/bankops/backoffice/internal/customerrepo"
	"github.com/bankops/backoffice/internal/customerservice"
	"github.com/bankops/backoffice/internal/ledgerdelivery"
	"github.com/bankops/backoffice/internal/ledgerservice"
	"github.com/bankops/backoffice/internal/middleware"
	"github.com/bankops/backoffice/internal/snapshot"
	"github.com/bankops/backoffice/pkg/configpkg"
	"github.com/bankops/backoffice/pkg/currencypkg"
	"github.com/bankops/backoffice/pkg/metricspkg"
)

// Server holds the directory, handlers router and configuration.
type Server struct {
	Directory *customerrepo.RepoMem
	Engine    *gin.Engine
	Config    configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
//
// The directory is restored from the snapshot store before any route is
// registered, so requests never observe a partially loaded state.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	ctx := logger.WithContext(context.Background())

	store := snapshot.NewStore(config.SnapshotFile)

	directory := customerrepo.NewRepoMem()

	persisted, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := directory.Restore(ctx, persisted); err != nil {
		return nil, err
	}

	customerService := customerservice.New(directory, store)
	ledgerService := ledgerservice.New(directory, store)

	customerHandler := customerdelivery.NewHandler(customerService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	collector := metricspkg.NewCollector()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(collector.Middleware())
	engine.Use(gin.Recovery())

	engine.POST("/customers", customerHandler.Create)
	engine.GET("/customers", customerHandler.List)
	engine.GET("/customers/:id", customerHandler.Get)
	engine.PUT("/customers/:id", customerHandler.Update)
	engine.DELETE("/customers/:id", customerHandler.Delete)
	engine.POST("/customers/:id/accounts", customerHandler.AddAccount)

	engine.POST("/accounts/:number/deposit", ledgerHandler.Deposit)
	engine.POST("/accounts/:number/withdraw", ledgerHandler.Withdraw)
	engine.POST("/transfers", ledgerHandler.Transfer)

	engine.GET("/metrics", gin.WrapH(collector.Handler()))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		Directory: directory,
		Engine:    engine,
		Config:    config,
	}

	return server, nil
}
