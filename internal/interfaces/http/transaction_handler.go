package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockwise/internal/application/dto"
	"github.com/jhoicas/stockwise/internal/application/inventory"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// TransactionService lo implementa *inventory.TransactionUseCase.
type TransactionService interface {
	RecordTransaction(ctx context.Context, in inventory.TransactionInput) (*entity.Transaction, error)
	ListTransactions(ctx context.Context, productID string, days int) ([]entity.Transaction, error)
}

// TransactionHandler maneja las peticiones HTTP de movimientos de inventario (protegido).
type TransactionHandler struct {
	uc TransactionService
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc TransactionService) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar movimiento de inventario
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "product_id, type, quantity, unit_price (opcional)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	tx, err := h.uc.RecordTransaction(c.Context(), inventory.TransactionInput{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Notes:     in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(tx))
}

// List godoc
// @Summary      Historial de movimientos de un producto
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        days        query  int     false  "días hacia atrás (30 por defecto, máximo 365)"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListTransactions(c.Context(), c.Query("product_id"), c.QueryInt("days", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.ToTransactionResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}
