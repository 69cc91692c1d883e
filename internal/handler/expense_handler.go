package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// ExpenseHandler handles expense CRUD, summaries and exports.
type ExpenseHandler struct {
	expenseSvc service.ExpenseService
	exportSvc  service.ExportService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseSvc service.ExpenseService, exportSvc service.ExportService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc, exportSvc: exportSvc}
}

// Create handles POST /api/v1/expenses
// @Summary Record an expense manually
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense"
// @Success 201 {object} Response{data=domain.Expense}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	expense, err := h.expenseSvc.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, expense)
}

// List handles GET /api/v1/expenses
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param category query string false "Category"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Expense}
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	filter, err := domain.ParseExpenseFilter(c.Query("from"), c.Query("to"), c.Query("category"))
	if err != nil {
		HandleError(c, err)
		return
	}
	offset, limit := parsePagination(c)

	expenses, total, err := h.expenseSvc.List(c.Request.Context(), userID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, expenses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/expenses/:id
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID (UUID)"
// @Success 200 {object} Response{data=domain.Expense}
// @Failure 404 {object} ErrorResponseBody "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid expense ID")
		return
	}

	expense, err := h.expenseSvc.GetByID(c.Request.Context(), userID, expenseID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, expense)
}

// Delete handles DELETE /api/v1/expenses/:id
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid expense ID")
		return
	}

	if err := h.expenseSvc.Delete(c.Request.Context(), userID, expenseID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "expense deleted"})
}

// Summary handles GET /api/v1/expenses/summary
// @Summary Spending totals by category
// @Tags expenses
// @Produce json
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {object} Response{data=domain.ExpenseSummary}
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	filter, err := domain.ParseExpenseFilter(c.Query("from"), c.Query("to"), "")
	if err != nil {
		HandleError(c, err)
		return
	}

	summary, err := h.expenseSvc.Summary(c.Request.Context(), userID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Export handles GET /api/v1/expenses/export
// @Summary Download expenses as CSV or XLSX
// @Tags expenses
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param category query string false "Category"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid format or filter"
// @Security BearerAuth
// @Router /expenses/export [get]
func (h *ExpenseHandler) Export(c *gin.Context) {
	userID, format, filter, ok := h.exportParams(c)
	if !ok {
		return
	}

	file, err := h.exportSvc.Export(c.Request.Context(), userID, format, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ExportLink handles POST /api/v1/expenses/export/link
// @Summary Upload an export and return a temporary download link
// @Tags expenses
// @Produce json
// @Param format query string false "csv or xlsx" default(csv)
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param category query string false "Category"
// @Success 200 {object} Response{data=service.ExportLink}
// @Failure 400 {object} ErrorResponseBody "Invalid format or filter"
// @Failure 503 {object} ErrorResponseBody "Export storage disabled"
// @Security BearerAuth
// @Router /expenses/export/link [post]
func (h *ExpenseHandler) ExportLink(c *gin.Context) {
	userID, format, filter, ok := h.exportParams(c)
	if !ok {
		return
	}

	link, err := h.exportSvc.ExportLink(c.Request.Context(), userID, format, filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, link)
}

func (h *ExpenseHandler) exportParams(c *gin.Context) (userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter, ok bool) {
	userID, ok = extractUserID(c)
	if !ok {
		return uuid.Nil, "", filter, false
	}

	format = domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))
	if _, supported := domain.ExportContentTypes[format]; !supported {
		HandleError(c, domain.ErrUnsupportedExportFormat)
		return uuid.Nil, "", filter, false
	}

	filter, err := domain.ParseExpenseFilter(c.Query("from"), c.Query("to"), c.Query("category"))
	if err != nil {
		HandleError(c, err)
		return uuid.Nil, "", filter, false
	}
	return userID, format, filter, true
}
