package transaction

import (
	"github.com/amirasaad/findash/pkg/dto"
	txsvc "github.com/amirasaad/findash/pkg/service/transaction"
	"github.com/amirasaad/findash/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the transaction endpoints under /api.
func Routes(app *fiber.App, txSvc *txsvc.Service) {
	api := app.Group("/api")
	api.Post("/transactions", CreateTransaction(txSvc))
	api.Get("/transactions", ListTransactions(txSvc))
	api.Get("/transactions/:id", GetTransaction(txSvc))
}

// CreateTransaction records income, an expense or a trade.
// @Summary Create a transaction
// @Description Trades require asset_symbol, shares and price_at_trade. The
// @Description amount is stored as given.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body NewTransaction true "Transaction data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/transactions [post]
func CreateTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewTransaction](c)
		if input == nil {
			return err // error response already written
		}
		params, err := input.toParams()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Validation failed", err)
		}
		tx, err := txSvc.CreateTransaction(c.UserContext(), params)
		if err != nil {
			return common.FailedJSON(c, "Couldn't create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created transaction", tx)
	}
}

// ListTransactions lists transactions ordered by date.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param user_id query int false "Only this user's transactions"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/transactions [get]
func ListTransactions(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter dto.TransactionFilter
		if raw := c.Query("user_id"); raw != "" {
			id, err := common.ParseID(raw)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid user ID", err)
			}
			filter.UserID = &id
		}
		txs, err := txSvc.ListTransactions(c.UserContext(), filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions found", txs)
	}
}

// GetTransaction returns one transaction.
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/transactions/{id} [get]
func GetTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseID(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err)
		}
		tx, err := txSvc.GetTransaction(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transaction not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction found", tx)
	}
}
