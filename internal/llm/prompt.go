package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"budgetbuddy/internal/domain"
)

// PromptInput carries everything the expense extraction prompt embeds.
type PromptInput struct {
	CurrentDate  time.Time
	Pending      *domain.DraftExpense
	LastQuestion string
	UserText     string
}

// BuildExpensePrompt returns the extraction prompt for one conversation turn.
func BuildExpensePrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are an expense tracking assistant for students. Turn the user's message into a structured expense record.\n\n")

	fmt.Fprintf(&b, "Today is %s, %s.\n\n", in.CurrentDate.Weekday(), in.CurrentDate.Format(domain.DateLayout))

	b.WriteString("Allowed categories (use exactly one of these strings):\n")
	for _, c := range domain.Categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n")

	if in.Pending != nil && !in.Pending.IsEmpty() {
		if pending, err := marshalPlain(in.Pending); err == nil {
			fmt.Fprintf(&b, "Expense collected so far in this conversation:\n%s\n\n", pending)
		}
	}
	if q := strings.TrimSpace(in.LastQuestion); q != "" {
		if question, err := marshalPlain(q); err == nil {
			fmt.Fprintf(&b, "The last question you asked the user was: %s\n\n", question)
		}
	}

	fmt.Fprintf(&b, "User message:\n%s\n\n", in.UserText)

	b.WriteString(`INSTRUCTIONS:
- Resolve relative dates ("today", "yesterday", "last Friday") to an absolute date in YYYY-MM-DD form using today's date above. Never return a relative date.
- If no date is mentioned, use today's date.
- Use context to disambiguate vendors and categories. "Subway" is the sandwich restaurant (Food & Dining) when food is mentioned and the metro (Transportation) when travel is mentioned.
- If an expense collected so far is given, merge the new message into it. Keep every field the user did not change.
- amount, description and category are required. If one is missing, ask exactly ONE short clarifying question about it in "followUpQuestion". Never ask more than one question.
- The description must be a short, clean, capitalized label such as "Sandwich at Subway", not the raw message.
- amount is a plain positive number without currency symbols.
- confidence is a number between 0 and 1 describing how sure you are of the extraction.

Return ONLY a single JSON object with no markdown and no explanation, in exactly this shape:
{
  "expense": {
    "amount": 0,
    "description": "",
    "category": "",
    "vendor": "",
    "date": "YYYY-MM-DD"
  },
  "needsMoreInfo": false,
  "complete": true,
  "followUpQuestion": null,
  "confidence": 0.0,
  "reasoning": ""
}
Use null for any expense field you do not know.`)

	return b.String()
}

// marshalPlain encodes v as compact JSON without HTML escaping, so
// "Food & Dining" reaches the model verbatim.
func marshalPlain(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// BuildFollowUpInput composes the user text for a turn that answers a
// previous follow-up question.
func BuildFollowUpInput(question, answer string) string {
	q := strings.TrimSpace(question)
	if q == "" {
		return fmt.Sprintf("Additional details for the expense collected so far: %s\nMerge this into the existing expense instead of starting a new one.", answer)
	}
	return fmt.Sprintf("You previously asked: %q\nThe user answered: %q\nMerge this answer into the existing expense instead of starting a new one.", q, answer)
}
