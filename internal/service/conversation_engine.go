package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/llm"
	"budgetbuddy/internal/port"
)

const defaultConfidence = 0.7

// User-facing failure messages.
const (
	msgEmptyInput  = "please describe the expense"
	msgInputTooBig = "message is too long, please keep it short"
	msgNoContext   = "there is no expense in progress to continue"
	msgTransport   = "could not reach the expense assistant, please try again"
	msgRateLimited = "the expense assistant is busy, please try again in a moment"
	msgUnparseable = "could not understand, please rephrase"
)

// Follow-up questions asked when the model left a required field empty
// without asking for it.
var missingFieldQuestions = map[string]string{
	domain.FieldAmount:      "What was the amount you spent?",
	domain.FieldDescription: "What did you spend the money on?",
	domain.FieldCategory:    "Which category fits best: Food & Dining, Transportation, Education, Entertainment, Healthcare, Shopping, Bills & Utilities, or Other?",
}

// TurnInput is one user message plus the caller-owned conversation state.
type TurnInput struct {
	Text    string
	Context *domain.ConversationContext
	// CurrentDate anchors relative dates. The engine's clock is used when zero.
	CurrentDate time.Time
}

// ConversationEngine turns free-form text into a structured expense, asking
// one follow-up question at a time until the expense is complete. Failures are
// reported in the result, never as errors.
type ConversationEngine interface {
	StartTurn(ctx context.Context, input TurnInput) *domain.EngineResult
	ContinueTurn(ctx context.Context, input TurnInput) *domain.EngineResult
}

type conversationEngine struct {
	completer     port.Completer
	logger        *zap.Logger
	now           func() time.Time
	location      *time.Location
	maxInputChars int
}

// EngineOption configures a ConversationEngine.
type EngineOption func(*conversationEngine)

// WithClock overrides the clock used when a turn carries no current date.
func WithClock(now func() time.Time) EngineOption {
	return func(e *conversationEngine) { e.now = now }
}

// WithLocation sets the timezone "today" is computed in.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *conversationEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithMaxInputChars rejects user messages longer than n runes. Zero disables the check.
func WithMaxInputChars(n int) EngineOption {
	return func(e *conversationEngine) { e.maxInputChars = n }
}

// NewConversationEngine creates a ConversationEngine. The engine holds no
// per-conversation state and is safe to share.
func NewConversationEngine(completer port.Completer, logger *zap.Logger, opts ...EngineOption) ConversationEngine {
	e := &conversationEngine{
		completer: completer,
		logger:    logger,
		now:       time.Now,
		location:  time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *conversationEngine) StartTurn(ctx context.Context, input TurnInput) *domain.EngineResult {
	text := strings.TrimSpace(input.Text)
	if res := e.checkInput(text); res != nil {
		return res
	}
	return e.turn(ctx, text, input.Context, e.today(input.CurrentDate))
}

func (e *conversationEngine) ContinueTurn(ctx context.Context, input TurnInput) *domain.EngineResult {
	if input.Context == nil {
		return inputFailure(msgNoContext)
	}
	answer := strings.TrimSpace(input.Text)
	if res := e.checkInput(answer); res != nil {
		return res
	}
	combined := llm.BuildFollowUpInput(input.Context.LastQuestion, answer)
	return e.turn(ctx, combined, input.Context, e.today(input.CurrentDate))
}

func (e *conversationEngine) checkInput(text string) *domain.EngineResult {
	if text == "" {
		return inputFailure(msgEmptyInput)
	}
	if e.maxInputChars > 0 && utf8.RuneCountInString(text) > e.maxInputChars {
		return inputFailure(msgInputTooBig)
	}
	return nil
}

func (e *conversationEngine) turn(ctx context.Context, text string, convo *domain.ConversationContext, today time.Time) *domain.EngineResult {
	in := llm.PromptInput{CurrentDate: today, UserText: text}
	var pending *domain.DraftExpense
	if convo != nil {
		pending = sanitizePending(convo.PendingExpense)
		in.Pending = pending
		in.LastQuestion = convo.LastQuestion
	}

	raw, err := e.completer.Complete(ctx, llm.BuildExpensePrompt(in))
	if err != nil {
		var rlErr *llm.RateLimitError
		if errors.As(err, &rlErr) {
			e.logger.Warn("expense assistant rate limited", zap.Duration("retry_after", rlErr.RetryAfter), zap.Error(err))
			return failure(domain.ErrorKindTransport, msgRateLimited)
		}
		e.logger.Error("expense assistant call failed", zap.Error(err))
		return failure(domain.ErrorKindTransport, msgTransport)
	}

	parsed, err := llm.ParseModelOutput(raw)
	if err != nil {
		e.logger.Warn("unparseable model output", zap.Int("raw_len", len(raw)), zap.Error(err))
		return failure(domain.ErrorKindMalformed, msgUnparseable)
	}
	if parsed.Reasoning != "" {
		e.logger.Debug("model reasoning", zap.String("reasoning", parsed.Reasoning))
	}

	result := normalize(parsed, pending, today)
	e.logger.Info("conversation turn processed",
		zap.Bool("complete", result.Complete),
		zap.Bool("needs_more_info", result.NeedsMoreInfo),
		zap.Bool("fallback_used", result.FallbackUsed),
		zap.Float64("confidence", result.Confidence),
		zap.Strings("missing", result.Expense.MissingFields()),
	)
	return result
}

// normalize enforces the category vocabulary and amount constraints, carries
// over fields from the pending draft the model left empty, and decides between
// complete and needs-more-info.
func normalize(parsed *llm.ParsedOutput, pending *domain.DraftExpense, today time.Time) *domain.EngineResult {
	draft := &domain.DraftExpense{}
	amountRejected := false

	if p := parsed.Expense; p != nil {
		draft.Description = p.Description
		draft.Vendor = p.Vendor
		if p.Category != "" {
			draft.Category = domain.NormalizeCategory(p.Category)
		}
		draft.Date = normalizeDate(p.Date)

		switch {
		case p.AmountRejected:
			amountRejected = true
		case p.Amount != nil && domain.ValidAmount(*p.Amount):
			amount := *p.Amount
			draft.Amount = &amount
		case p.Amount != nil:
			amountRejected = true
		}
	}

	draft.FillMissing(pending)
	if amountRejected {
		draft.Amount = nil
	}
	if parsed.FallbackUsed {
		if draft.Category == "" {
			draft.Category = domain.CategoryOther
		}
		if draft.Date == "" {
			draft.Date = today.Format(domain.DateLayout)
		}
	}

	question := strings.TrimSpace(parsed.FollowUpQuestion)
	if question == "" && amountRejected {
		question = missingFieldQuestions[domain.FieldAmount]
	}
	if missing := draft.MissingFields(); question == "" && len(missing) > 0 {
		question = missingFieldQuestions[missing[0]]
	}

	result := &domain.EngineResult{
		Success:      true,
		Expense:      draft,
		Confidence:   clampConfidence(parsed.Confidence),
		FallbackUsed: parsed.FallbackUsed,
	}
	if question != "" {
		result.NeedsMoreInfo = true
		result.FollowUpQuestion = question
	} else {
		result.Complete = true
	}
	return result
}

// sanitizePending returns a copy of the caller's draft holding only values the
// engine itself would have produced. The context round-trips through clients,
// so nothing in it is trusted.
func sanitizePending(d *domain.DraftExpense) *domain.DraftExpense {
	if d == nil {
		return nil
	}
	out := &domain.DraftExpense{
		Description: strings.TrimSpace(d.Description),
		Vendor:      strings.TrimSpace(d.Vendor),
		Date:        normalizeDate(d.Date),
	}
	if d.Category != "" {
		out.Category = domain.NormalizeCategory(string(d.Category))
	}
	if d.Amount != nil && domain.ValidAmount(*d.Amount) {
		amount := *d.Amount
		out.Amount = &amount
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// normalizeDate keeps only well-formed calendar dates.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func clampConfidence(c *float64) float64 {
	if c == nil {
		return defaultConfidence
	}
	switch {
	case *c < 0:
		return 0
	case *c > 1:
		return 1
	default:
		return *c
	}
}

// today returns the calendar date to resolve relative references against.
func (e *conversationEngine) today(current time.Time) time.Time {
	if current.IsZero() {
		current = e.now().In(e.location)
	}
	y, m, d := current.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, current.Location())
}

func inputFailure(msg string) *domain.EngineResult {
	return failure(domain.ErrorKindInput, msg)
}

func failure(kind domain.ErrorKind, msg string) *domain.EngineResult {
	return &domain.EngineResult{
		Success:   false,
		Error:     msg,
		ErrorKind: kind,
	}
}
