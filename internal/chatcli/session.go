package chatcli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// In-session commands.
const (
	cmdQuit  = "/quit"
	cmdReset = "/reset"
	cmdState = "/context"
)

// Session reads user messages line by line and drives one expense dialogue at
// a time. The conversation context lives only in the session.
type Session struct {
	engine      service.ConversationEngine
	in          *bufio.Scanner
	out         io.Writer
	currentDate time.Time

	convo     *domain.ConversationContext
	completed []*domain.DraftExpense
}

// NewSession creates a Session. A zero currentDate lets the engine use its clock.
func NewSession(engine service.ConversationEngine, in io.Reader, out io.Writer, currentDate time.Time) *Session {
	return &Session{
		engine:      engine,
		in:          bufio.NewScanner(in),
		out:         out,
		currentDate: currentDate,
	}
}

// Completed returns the expenses finished during the session, oldest first.
func (s *Session) Completed() []*domain.DraftExpense {
	return s.completed
}

// Run loops until the input ends, the user quits, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.println(titleStyle.Render("budgetbuddy") + " " + subtleStyle.Render("tell me what you spent. /reset starts over, /quit exits."))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.print(promptStyle.Render("> "))
		if !s.in.Scan() {
			s.println("")
			return s.in.Err()
		}

		line := strings.TrimSpace(s.in.Text())
		switch line {
		case "":
			continue
		case cmdQuit:
			return nil
		case cmdReset:
			s.convo = nil
			s.println(subtleStyle.Render("started over"))
			continue
		case cmdState:
			s.printContext()
			continue
		}

		s.Turn(ctx, line)
	}
}

// Turn sends one message to the engine and prints the outcome.
func (s *Session) Turn(ctx context.Context, text string) *domain.EngineResult {
	input := service.TurnInput{Text: text, Context: s.convo, CurrentDate: s.currentDate}

	var result *domain.EngineResult
	if s.convo == nil {
		result = s.engine.StartTurn(ctx, input)
	} else {
		result = s.engine.ContinueTurn(ctx, input)
	}

	switch {
	case !result.Success:
		s.println(errorStyle.Render(result.Error))
	case result.NeedsMoreInfo:
		s.println(questionStyle.Render(result.FollowUpQuestion))
	case result.Complete:
		s.completed = append(s.completed, result.Expense.Clone())
		s.println(renderExpense(result))
	}

	s.convo = result.NextContext(s.convo)
	return result
}

func (s *Session) printContext() {
	if s.convo == nil {
		s.println(subtleStyle.Render("no expense in progress"))
		return
	}
	b, err := json.MarshalIndent(s.convo, "", "  ")
	if err != nil {
		s.println(errorStyle.Render(err.Error()))
		return
	}
	s.println(subtleStyle.Render(string(b)))
}

func renderExpense(result *domain.EngineResult) string {
	e := result.Expense
	rows := []string{
		row("Amount", "$"+strconv.FormatFloat(*e.Amount, 'f', 2, 64)),
		row("For", e.Description),
		row("Category", string(e.Category)),
	}
	if e.Vendor != "" {
		rows = append(rows, row("Vendor", e.Vendor))
	}
	if e.Date != "" {
		rows = append(rows, row("Date", e.Date))
	}
	footer := fmt.Sprintf("confidence %.0f%%", result.Confidence*100)
	if result.FallbackUsed {
		footer += ", best guess from a messy reply"
	}
	rows = append(rows, subtleStyle.Render(footer))
	return expenseBoxStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func (s *Session) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

func (s *Session) println(text string) {
	_, _ = io.WriteString(s.out, text+"\n")
}
