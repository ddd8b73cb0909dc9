// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/app/handlers"
	"github.com/alqaisi42/medexaTPA-sub003/app/middleware"
	"github.com/alqaisi42/medexaTPA-sub003/config"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                  *fiber.App
	cfg                  *config.ProductionConfig
	pricingHandler       handlers.PricingHandlerInterface
	ruleAdminHandler     handlers.PricingRuleAdminHandlerInterface
	catalogAdminHandler  handlers.CatalogAdminHandlerInterface
	contractAdminHandler handlers.ContractAdminHandlerInterface
	caseAdminHandler     handlers.AdjustmentCaseAdminHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	pricingHandler handlers.PricingHandlerInterface,
	ruleAdminHandler handlers.PricingRuleAdminHandlerInterface,
	catalogAdminHandler handlers.CatalogAdminHandlerInterface,
	contractAdminHandler handlers.ContractAdminHandlerInterface,
	caseAdminHandler handlers.AdjustmentCaseAdminHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "MedexaTPA Pricing API",
		ServerHeader: "MedexaTPA-Pricing",
		ErrorHandler: errorHandler,
		BodyLimit:    8 * 1024 * 1024, // Excel imports
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                  app,
		cfg:                  cfg,
		pricingHandler:       pricingHandler,
		ruleAdminHandler:     ruleAdminHandler,
		catalogAdminHandler:  catalogAdminHandler,
		contractAdminHandler: contractAdminHandler,
		caseAdminHandler:     caseAdminHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group and rate limiter
	if r.cfg == nil || r.cfg.Metrics.Enabled {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Calculation endpoints
	pricing := api.Group("/pricing")
	pricing.Post("/calculate", r.pricingHandler.CalculatePricing)
	pricing.Post("/calculate/batch", r.pricingHandler.CalculatePricingBatch)

	// Admin endpoints
	admin := api.Group("/admin")

	rules := admin.Group("/pricing-rules")
	rules.Get("/", r.ruleAdminHandler.ListPricingRules)
	rules.Post("/", r.ruleAdminHandler.CreatePricingRule)
	rules.Get("/export", r.ruleAdminHandler.ExportPricingRules)
	rules.Post("/import", r.ruleAdminHandler.ImportPricingRules)
	rules.Get("/:id", r.ruleAdminHandler.GetPricingRule)
	rules.Put("/:id", r.ruleAdminHandler.UpdatePricingRule)
	rules.Delete("/:id", r.ruleAdminHandler.DeletePricingRule)

	defs := admin.Group("/factor-definitions")
	defs.Get("/", r.catalogAdminHandler.ListFactorDefinitions)
	defs.Post("/", r.catalogAdminHandler.CreateFactorDefinition)
	defs.Put("/:id", r.catalogAdminHandler.UpdateFactorDefinition)
	defs.Delete("/:id", r.catalogAdminHandler.DeleteFactorDefinition)

	lists := admin.Group("/price-lists")
	lists.Get("/", r.catalogAdminHandler.ListPriceLists)
	lists.Post("/", r.catalogAdminHandler.CreatePriceList)
	lists.Put("/:id", r.catalogAdminHandler.UpdatePriceList)

	degrees := admin.Group("/insurance-degrees")
	degrees.Get("/", r.catalogAdminHandler.ListInsuranceDegrees)
	degrees.Post("/", r.catalogAdminHandler.CreateInsuranceDegree)
	degrees.Put("/:id", r.catalogAdminHandler.UpdateInsuranceDegree)

	rates := admin.Group("/point-rates")
	rates.Get("/", r.catalogAdminHandler.ListPointRates)
	rates.Post("/", r.catalogAdminHandler.CreatePointRate)
	rates.Delete("/:id", r.catalogAdminHandler.DeletePointRate)

	contracts := admin.Group("/contracts")
	contracts.Get("/", r.contractAdminHandler.ListContracts)
	contracts.Post("/", r.contractAdminHandler.CreateContract)
	contracts.Put("/:id", r.contractAdminHandler.UpdateContract)

	cases := admin.Group("/adjustment-cases")
	cases.Get("/", r.caseAdminHandler.ListAdjustmentCases)
	cases.Post("/", r.caseAdminHandler.CreateAdjustmentCase)
	cases.Post("/reorder", r.caseAdminHandler.ReorderAdjustmentCases)
	cases.Put("/:id", r.caseAdminHandler.UpdateAdjustmentCase)
	cases.Delete("/:id", r.caseAdminHandler.DeleteAdjustmentCase)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000, // 1 year
		HSTSExcludeSubdomains: false,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware
	allowOrigins := []string{"https://medexa.example.com"}
	if r.cfg != nil && len(r.cfg.Security.AllowedOrigins) > 0 {
		allowOrigins = r.cfg.Security.AllowedOrigins
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Excel downloads are already compressed
			return contains(c.Get("Content-Type"), "spreadsheetml")
		},
	}))

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "medexa-tpa-pricing",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
