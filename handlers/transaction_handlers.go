package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ifore/analytics"
)

// HandleGetTransactionHistory returns every transaction with its order items.
// GET /api/v1/transactions
func (h *Handler) HandleGetTransactionHistory(c *fiber.Ctx) error {
	txs, err := h.analytics.TransactionHistory(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get transaction history data", txs)
}

// HandleGetTransactionByID returns one transaction.
// GET /api/v1/transactions/:id
func (h *Handler) HandleGetTransactionByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return respondError(c, &analytics.InputError{Field: "id", Message: "must be a positive integer"})
	}
	tx, err := h.analytics.Transaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, "Get transaction by id", tx)
}
