package handlers

import (
	"net/http"
	"strings"

	"expense_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateExpenseRequest is the create payload. Required fields are checked by
// the service so every missing field yields the same 400 shape.
type CreateExpenseRequest struct {
	Title    string   `json:"title" example:"Lunch"`
	Amount   *float64 `json:"amount" example:"12.5"`
	Category string   `json:"category" example:"Lunch"`
	// RFC3339 or YYYY-MM-DD; defaults to now
	Date   string `json:"date,omitempty" example:"2025-08-27"`
	Reason string `json:"reason,omitempty" example:"team lunch"`
}

// UpdateExpenseRequest is a partial update; omitted fields stay unchanged.
type UpdateExpenseRequest struct {
	Title    *string  `json:"title,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
	Reason   *string  `json:"reason,omitempty"`
}

// @Summary      List expenses
// @Description  Returns only the caller's expenses, oldest first.
// @Tags         expenses
// @Produce      json
// @Success      200  {array}   models.Expense
// @Failure      401  {object}  errorResponse
// @Router       /api/expenses [get]
// @Security     BearerAuth
func (h *Handler) listExpenses(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.services.Expenses.List(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err, "expense_list_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Create expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body  body      CreateExpenseRequest  true  "Expense"
// @Success      201   {object}  models.Expense
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/expenses [post]
// @Security     BearerAuth
func (h *Handler) createExpense(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req CreateExpenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req, "expense_create_bad_body"); !ok {
		return
	}

	in := service.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Reason:   req.Reason,
	}
	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := parseQueryTime(s, h.loc)
		if err != nil {
			h.badRequest(c, "expense_create_bad_date", err)
			return
		}
		in.Date = d
	}

	e, err := h.services.Expenses.Create(c.Request.Context(), uid, in)
	if err != nil {
		h.fail(c, err, "expense_create_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Expense id"
// @Param        body  body      UpdateExpenseRequest  true  "Fields to change"
// @Success      200   {object}  models.Expense
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/expenses/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateExpense(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req UpdateExpenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req, "expense_update_bad_body"); !ok {
		return
	}

	patch := service.ExpensePatch{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Reason:   req.Reason,
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := parseQueryTime(strings.TrimSpace(*req.Date), h.loc)
		if err != nil {
			h.badRequest(c, "expense_update_bad_date", err)
			return
		}
		patch.Date = &d
	}

	id := c.Param("id")
	e, err := h.services.Expenses.Update(c.Request.Context(), uid, id, patch)
	if err != nil {
		h.fail(c, err, "expense_update_failed", "user_id", uid, "expense_id", id)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      string  true  "Expense id"
// @Success      200  {object}  map[string]string  "id"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/expenses/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteExpense(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.services.Expenses.Delete(c.Request.Context(), uid, id); err != nil {
		h.fail(c, err, "expense_delete_failed", "user_id", uid, "expense_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

