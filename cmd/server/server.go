package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/config"
	"github.com/Simplici0/printdesk/internal/etsy"
	"github.com/Simplici0/printdesk/internal/inventory"
	"github.com/Simplici0/printdesk/internal/products"
	"github.com/Simplici0/printdesk/internal/quotes"
	"github.com/Simplici0/printdesk/internal/rates"
	"github.com/Simplici0/printdesk/internal/shopify"
)

type server struct {
	cfg       config.Config
	db        *sqlx.DB
	log       *zap.Logger
	schedules map[string]etsy.FeeSettings

	rates     *rates.Store
	inventory *inventory.Store
	resolver  *inventory.Resolver
	quotes    *quotes.Store
	products  *products.Store
	shopify   *shopify.Syncer
}

func newServer(cfg config.Config, database *sqlx.DB, schedules map[string]etsy.FeeSettings, log *zap.Logger) *server {
	if log == nil {
		log = zap.NewNop()
	}
	if schedules == nil {
		schedules = etsy.Schedules()
	}

	inv := inventory.NewStore(database)
	catalogue := products.NewStore(database)

	// Webhooks work without API credentials; only Sync needs a client.
	var source shopify.ProductSource
	if cfg.ShopifyConfigured() {
		source = shopify.NewClient(cfg.ShopifyStoreURL, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, nil)
	}

	return &server{
		cfg:       cfg,
		db:        database,
		log:       log,
		schedules: schedules,
		rates:     rates.NewStore(database),
		inventory: inv,
		resolver:  inventory.NewResolver(inv),
		quotes:    quotes.NewStore(database),
		products:  catalogue,
		shopify:   shopify.NewSyncer(source, catalogue, log.Named("shopify")),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculator/quote", s.handleCalculatorQuote)
		r.Post("/calculator/custom-price", s.handleCustomPrice)

		r.Post("/etsy/fees", s.handleEtsyFees)
		r.Get("/etsy/regions", s.handleEtsyRegions)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/cost", s.handleGetCostSettings)
			r.Put("/cost", s.handlePutCostSettings)
			r.Get("/etsy", s.handleGetEtsySettings)
			r.Put("/etsy", s.handlePutEtsySettings)
		})

		r.Route("/inventory/{kind}", func(r chi.Router) {
			r.Get("/", s.handleInventoryList)
			r.Post("/", s.handleInventoryCreate)
			r.Put("/{id}", s.handleInventoryUpdate)
			r.Post("/{id}/adjust", s.handleInventoryAdjust)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleQuotesList)
			r.Post("/", s.handleQuotesCreate)
			r.Get("/{id}", s.handleQuoteGet)
			r.Delete("/{id}", s.handleQuoteDelete)
			r.Get("/{id}/text", s.handleQuoteText)
		})

		r.Get("/products", s.handleProductsList)
		r.Post("/shopify/sync", s.handleShopifySync)
	})

	r.Post("/webhooks/shopify", s.handleShopifyWebhook)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.Error("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
