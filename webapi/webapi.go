// Package webapi provides the HTTP surface of the finance dashboard backend.
// It is organized into sub-packages per resource:
// - user: user endpoints
// - transaction: income, expense and trade endpoints
// - analytics: cashflow, portfolio value, net worth, allocation and Monte Carlo
// - demo: demo data seeding
package webapi

import (
	"errors"

	_ "github.com/amirasaad/findash/docs" // registers the OpenAPI document
	"github.com/amirasaad/findash/pkg/app"
	analyticsweb "github.com/amirasaad/findash/webapi/analytics"
	"github.com/amirasaad/findash/webapi/common"
	demoweb "github.com/amirasaad/findash/webapi/demo"
	transactionweb "github.com/amirasaad/findash/webapi/transaction"
	userweb "github.com/amirasaad/findash/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
)

const ServiceName = "Finance Dashboard API"

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: ServiceName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, err, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/docs/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	fiberApp.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	allowOrigins := "*"
	if a.Config != nil && a.Config.Cors != nil && a.Config.Cors.AllowOrigins != "" {
		allowOrigins = a.Config.Cors.AllowOrigins
	}
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
	}))

	// Rate limiting per client; see common.ClientKey for proxy handling.
	if a.Config != nil && a.Config.RateLimit != nil && a.Config.RateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          a.Config.RateLimit.MaxRequests,
			Expiration:   a.Config.RateLimit.Window,
			KeyGenerator: common.ClientKey,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": ServiceName,
		})
	})

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		routeList := make([]fiber.Map, 0)
		for _, route := range fiberApp.GetRoutes(true) {
			if route.Path != "" {
				routeList = append(routeList, fiber.Map{
					"method": route.Method,
					"path":   route.Path,
				})
			}
		}
		return c.JSON(routeList)
	})

	userweb.Routes(fiberApp, a.UserService)
	transactionweb.Routes(fiberApp, a.TransactionService)
	analyticsweb.Routes(fiberApp, a.AnalyticsService)
	demoweb.Routes(fiberApp, a.DemoService)
	return fiberApp
}
