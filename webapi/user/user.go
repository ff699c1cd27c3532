package user

import (
	usersvc "github.com/amirasaad/findash/pkg/service/user"
	"github.com/amirasaad/findash/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the user endpoints under /api.
func Routes(app *fiber.App, userSvc *usersvc.Service) {
	api := app.Group("/api")
	api.Post("/users", CreateUser(userSvc))
	api.Get("/users", ListUsers(userSvc))
	api.Get("/users/:id", GetUser(userSvc))
}

// CreateUser creates a new user.
// @Summary Create a new user
// @Description Create a user with a name and a unique email address
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUser true "User creation data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/users [post]
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err // error response already written
		}
		user, err := userSvc.CreateUser(c.UserContext(), input.Name, input.Email)
		if err != nil {
			return common.FailedJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", user)
	}
}

// ListUsers returns every user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} common.Response
// @Failure 500 {object} common.ProblemDetails
// @Router /api/users [get]
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userSvc.ListUsers(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list users", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users found", users)
	}
}

// GetUser returns a user by ID.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/users/{id} [get]
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		user, err := userSvc.GetUser(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", user)
	}
}
