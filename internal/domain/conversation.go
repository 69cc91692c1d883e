package domain

import (
	"math"
	"strings"
)

// DraftExpense is an expense under construction across one or more
// conversation turns. Empty strings and a nil Amount mean "absent".
type DraftExpense struct {
	Amount      *float64 `json:"amount,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
	Date        string   `json:"date,omitempty"`
}

// Required draft fields, in the order a follow-up asks for them.
const (
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
)

// MissingFields returns the required fields that are still absent.
func (d *DraftExpense) MissingFields() []string {
	var missing []string
	if d.Amount == nil {
		missing = append(missing, FieldAmount)
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, FieldDescription)
	}
	if d.Category == "" {
		missing = append(missing, FieldCategory)
	}
	return missing
}

// IsComplete reports whether amount, description and category are all present.
func (d *DraftExpense) IsComplete() bool {
	return len(d.MissingFields()) == 0
}

// IsEmpty reports whether no field at all has been extracted.
func (d *DraftExpense) IsEmpty() bool {
	return d.Amount == nil && d.Description == "" && d.Category == "" && d.Vendor == "" && d.Date == ""
}

// Clone returns a deep copy of d.
func (d *DraftExpense) Clone() *DraftExpense {
	if d == nil {
		return nil
	}
	out := *d
	if d.Amount != nil {
		amount := *d.Amount
		out.Amount = &amount
	}
	return &out
}

// FillMissing copies every field that is absent on d from prev.
func (d *DraftExpense) FillMissing(prev *DraftExpense) {
	if prev == nil {
		return
	}
	if d.Amount == nil && prev.Amount != nil {
		amount := *prev.Amount
		d.Amount = &amount
	}
	if d.Description == "" {
		d.Description = prev.Description
	}
	if d.Category == "" {
		d.Category = prev.Category
	}
	if d.Vendor == "" {
		d.Vendor = prev.Vendor
	}
	if d.Date == "" {
		d.Date = prev.Date
	}
}

// ValidAmount reports whether v is usable as an expense amount.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ConversationContext threads a partial expense and the last follow-up
// question between turns of one expense-entry dialogue. It is owned by the
// caller; the engine only reads it.
type ConversationContext struct {
	PendingExpense *DraftExpense `json:"pendingExpense,omitempty"`
	LastQuestion   string        `json:"lastQuestion,omitempty"`
}

// ErrorKind classifies a failed turn.
type ErrorKind string

const (
	ErrorKindInput     ErrorKind = "input"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindMalformed ErrorKind = "malformed"
)

// EngineResult is the outcome of one conversation turn.
type EngineResult struct {
	Success          bool          `json:"success"`
	Expense          *DraftExpense `json:"expense,omitempty"`
	NeedsMoreInfo    bool          `json:"needsMoreInfo"`
	Complete         bool          `json:"complete"`
	FollowUpQuestion string        `json:"followUpQuestion,omitempty"`
	Confidence       float64       `json:"confidence"`
	Error            string        `json:"error,omitempty"`
	ErrorKind        ErrorKind     `json:"errorKind,omitempty"`
	FallbackUsed     bool          `json:"fallbackUsed,omitempty"`
}

// NextContext builds the context for the following turn. It returns nil once
// the expense is complete, and prev unchanged when the turn failed so the
// caller can retry or let the user rephrase.
func (r *EngineResult) NextContext(prev *ConversationContext) *ConversationContext {
	if !r.Success {
		return prev
	}
	if r.Complete {
		return nil
	}
	return &ConversationContext{
		PendingExpense: r.Expense.Clone(),
		LastQuestion:   r.FollowUpQuestion,
	}
}
