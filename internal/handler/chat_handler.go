package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// ChatTurnRequest is one user message in an expense-entry conversation.
type ChatTurnRequest struct {
	Text string `json:"text" example:"I spent $10.88 on a sandwich at Subway today"`
	// Context is the next_context returned by the previous turn.
	Context *domain.ConversationContext `json:"context"`
	// CurrentDate (YYYY-MM-DD) anchors relative dates; the server's today is used when empty.
	CurrentDate string `json:"current_date" example:"2024-03-15"`
	// AutoSave overrides the server default for persisting completed expenses.
	AutoSave *bool `json:"auto_save"`
}

// ChatTurnResponse is the outcome of one turn plus the context to send with the next.
type ChatTurnResponse struct {
	Result       *domain.EngineResult        `json:"result"`
	NextContext  *domain.ConversationContext `json:"next_context"`
	SavedExpense *domain.Expense             `json:"saved_expense,omitempty"`
	SaveError    *APIError                   `json:"save_error,omitempty"`
}

// ChatHandler exposes the conversation engine over HTTP. Engine failures are
// part of the result and always answer 200.
type ChatHandler struct {
	engine     service.ConversationEngine
	expenseSvc service.ExpenseService
	autoSave   bool
	location   *time.Location
	logger     *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine service.ConversationEngine, expenseSvc service.ExpenseService, cfg *config.ChatConfig, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		engine:     engine,
		expenseSvc: expenseSvc,
		autoSave:   cfg.AutoSave,
		location:   cfg.Location(),
		logger:     logger,
	}
}

// StartTurn handles POST /api/v1/chat/turns
// @Summary Start or continue describing an expense
// @Description Extracts an expense from free text. Returns either a complete expense or one follow-up question.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatTurnRequest true "User message"
// @Success 200 {object} Response{data=ChatTurnResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /chat/turns [post]
func (h *ChatHandler) StartTurn(c *gin.Context) {
	h.handleTurn(c, h.engine.StartTurn)
}

// ContinueTurn handles POST /api/v1/chat/turns/continue
// @Summary Answer the last follow-up question
// @Description Merges the answer into the pending expense carried in context.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatTurnRequest true "Answer plus the previous next_context"
// @Success 200 {object} Response{data=ChatTurnResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /chat/turns/continue [post]
func (h *ChatHandler) ContinueTurn(c *gin.Context) {
	h.handleTurn(c, h.engine.ContinueTurn)
}

func (h *ChatHandler) handleTurn(c *gin.Context, turn func(context.Context, service.TurnInput) *domain.EngineResult) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var req ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a text field")
		return
	}

	var currentDate time.Time
	if s := strings.TrimSpace(req.CurrentDate); s != "" {
		d, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			HandleError(c, domain.ErrInvalidDate)
			return
		}
		currentDate = d
	}

	result := turn(c.Request.Context(), service.TurnInput{
		Text:        req.Text,
		Context:     req.Context,
		CurrentDate: currentDate,
	})

	resp := ChatTurnResponse{
		Result:      result,
		NextContext: result.NextContext(req.Context),
	}
	if result.Complete && h.shouldSave(req.AutoSave) {
		h.save(c, userID, result.Expense, currentDate, &resp)
	}

	RespondOK(c, resp)
}

func (h *ChatHandler) shouldSave(override *bool) bool {
	if override != nil {
		return *override
	}
	return h.autoSave
}

// save persists a completed expense. A failed save is reported next to the
// result so the client still sees what was extracted.
func (h *ChatHandler) save(c *gin.Context, userID uuid.UUID, draft *domain.DraftExpense, currentDate time.Time, resp *ChatTurnResponse) {
	if currentDate.IsZero() {
		currentDate = time.Now().In(h.location)
	}
	expense, err := h.expenseSvc.SaveDraft(c.Request.Context(), userID, draft, currentDate)
	if err != nil {
		_, code, msg := MapDomainError(err)
		h.logger.Error("saving chat expense failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		resp.SaveError = &APIError{Code: code, Message: msg}
		return
	}
	resp.SavedExpense = expense
}
