// Package analytics exposes the derived views of a user's transactions.
package analytics

import (
	"time"

	"github.com/amirasaad/findash/pkg/domain/transaction"
	"github.com/amirasaad/findash/pkg/dto"
	analyticssvc "github.com/amirasaad/findash/pkg/service/analytics"
	"github.com/amirasaad/findash/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the analytics endpoints under /api.
func Routes(app *fiber.App, svc *analyticssvc.Service) {
	api := app.Group("/api")
	api.Get("/cashflow", Cashflow(svc))
	api.Get("/portfolio/value", PortfolioValue(svc))
	api.Get("/networth", NetWorth(svc))
	api.Get("/allocation", Allocation(svc))
	api.Post("/montecarlo", MonteCarlo(svc))
}

type query struct {
	userID uint
	asOf   time.Time
}

// parseQuery reads user_id and the optional as_of date. It writes the
// problem response itself and returns ok=false on bad input.
func parseQuery(c *fiber.Ctx) (q query, ok bool, err error) {
	raw := c.Query("user_id")
	if raw == "" {
		return q, false, common.ProblemDetailsJSON(c, "Validation failed", nil, "user_id is required", fiber.StatusBadRequest)
	}
	if q.userID, err = common.ParseID(raw); err != nil {
		return q, false, common.ProblemDetailsJSON(c, "Invalid user ID", err)
	}
	if raw := c.Query("as_of"); raw != "" {
		if q.asOf, err = transaction.ParseDate(raw); err != nil {
			return q, false, common.ProblemDetailsJSON(c, "Invalid as_of", err, "as_of must be formatted as YYYY-MM-DD")
		}
	}
	return q, true, nil
}

func failed(c *fiber.Ctx, what string, err error) error {
	return common.FailedJSON(c, "Couldn't compute "+what, err)
}

// Cashflow returns monthly income, expense and net.
// @Summary Monthly cashflow
// @Tags analytics
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/cashflow [get]
func Cashflow(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := parseQuery(c)
		if !ok {
			return err
		}
		points, err := svc.Cashflow(c.UserContext(), q.userID)
		if err != nil {
			return failed(c, "cashflow", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cashflow", points)
	}
}

// PortfolioValue returns the daily value of cash and positions.
// @Summary Portfolio value series
// @Tags analytics
// @Produce json
// @Param user_id query int true "User ID"
// @Param as_of query string false "Last day of the series (YYYY-MM-DD), default today"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/portfolio/value [get]
func PortfolioValue(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := parseQuery(c)
		if !ok {
			return err
		}
		points, err := svc.PortfolioValue(c.UserContext(), q.userID, q.asOf)
		if err != nil {
			return failed(c, "portfolio value", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Portfolio value", points)
	}
}

// NetWorth returns the portfolio value series as net worth.
// @Summary Net worth series
// @Tags analytics
// @Produce json
// @Param user_id query int true "User ID"
// @Param as_of query string false "Last day of the series (YYYY-MM-DD), default today"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/networth [get]
func NetWorth(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := parseQuery(c)
		if !ok {
			return err
		}
		points, err := svc.NetWorth(c.UserContext(), q.userID, q.asOf)
		if err != nil {
			return failed(c, "net worth", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Net worth", points)
	}
}

// Allocation splits the current value between cash and positions.
// @Summary Asset allocation
// @Tags analytics
// @Produce json
// @Param user_id query int true "User ID"
// @Param as_of query string false "Valuation day (YYYY-MM-DD), default today"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/allocation [get]
func Allocation(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, ok, err := parseQuery(c)
		if !ok {
			return err
		}
		parts, err := svc.Allocation(c.UserContext(), q.userID, q.asOf)
		if err != nil {
			return failed(c, "allocation", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Allocation", parts)
	}
}

// MonteCarloRequest is the body of a projection request. Omitted fields
// take their defaults.
type MonteCarloRequest struct {
	UserID         uint     `json:"user_id" validate:"required"`
	InitialValue   *float64 `json:"initial_value,omitempty"`
	ExpectedReturn *float64 `json:"expected_return,omitempty"`
	Volatility     *float64 `json:"volatility,omitempty" validate:"omitempty,gte=0"`
	Periods        int      `json:"periods,omitempty" validate:"omitempty,min=1,max=600"`
	Simulations    int      `json:"simulations,omitempty" validate:"omitempty,min=1,max=10000"`
}

// MonteCarlo projects wealth with monthly geometric Brownian motion.
// @Summary Monte Carlo projection
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body MonteCarloRequest true "Simulation parameters"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/montecarlo [post]
func MonteCarlo(svc *analyticssvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[MonteCarloRequest](c)
		if input == nil {
			return err // error response already written
		}
		result, err := svc.MonteCarlo(c.UserContext(), dto.MonteCarloParams{
			UserID:         input.UserID,
			InitialValue:   input.InitialValue,
			ExpectedReturn: input.ExpectedReturn,
			Volatility:     input.Volatility,
			Periods:        input.Periods,
			Simulations:    input.Simulations,
		})
		if err != nil {
			return failed(c, "projection", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Monte Carlo projection", result)
	}
}
