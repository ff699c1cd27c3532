package demo

import (
	demosvc "github.com/amirasaad/findash/pkg/service/demo"
	"github.com/amirasaad/findash/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, svc *demosvc.Service) {
	app.Post("/api/demo/seed", Seed(svc))
}

// Seed creates a demo user with six months of history and two trades.
// @Summary Seed demo data
// @Tags demo
// @Produce json
// @Success 201 {object} common.Response
// @Failure 500 {object} common.ProblemDetails
// @Router /api/demo/seed [post]
func Seed(svc *demosvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Seed(c.UserContext())
		if err != nil {
			return common.FailedJSON(c, "Couldn't seed demo data", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Seeded demo data", res)
	}
}
