package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/magifolio/backend/src/config"
	"github.com/username/magifolio/backend/src/database"
	"github.com/username/magifolio/backend/src/handlers"
	"github.com/username/magifolio/backend/src/logger"
	"github.com/username/magifolio/backend/src/processors"
	"github.com/username/magifolio/backend/src/services"
	"github.com/username/magifolio/backend/src/taxrules"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := false
		for _, o := range config.Cfg.AllowedOrigins {
			if o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Magifolio backend server starting...")

	rules := taxrules.Default()
	if config.Cfg.TaxRulesPath != "" {
		logger.L.Info("Loading tax rules overrides", "path", config.Cfg.TaxRulesPath)
		if err := rules.LoadFile(config.Cfg.TaxRulesPath); err != nil {
			logger.L.Error("Failed to load tax rules file", "path", config.Cfg.TaxRulesPath, "error", err)
		}
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	aggregator := processors.NewIncomeAggregator()
	calculator := processors.NewMAGICalculator(rules, processors.CalculatorOptions{
		CapitalLossLimit: config.Cfg.CapitalLossLimit,
	})

	estimateService := services.NewEstimateService(aggregator, calculator, reportCache)

	uploadHandler := handlers.NewUploadHandler(estimateService)
	estimateHandler := handlers.NewEstimateHandler(estimateService, rules)
	dataHandler := handlers.NewDataHandler(estimateService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Magifolio Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.SessionMiddleware)

		r.Get("/filing-statuses", estimateHandler.HandleGetFilingStatuses)
		r.Get("/tax-years", estimateHandler.HandleGetTaxYears)

		r.Post("/upload", uploadHandler.HandleUpload)
		r.Post("/calculate", estimateHandler.HandleCalculate)
		r.Get("/result", estimateHandler.HandleGetResult)
		r.Get("/data-summary", dataHandler.HandleGetDataSummary)
		r.Get("/records", dataHandler.HandleGetRecords)
		r.Delete("/session", dataHandler.HandleClearSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
