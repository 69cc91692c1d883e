package llm

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SalvageConfidence is reported for results recovered by the salvage parse.
const SalvageConfidence = 0.6

// ParsedExpense is the expense portion of a model answer before normalization.
type ParsedExpense struct {
	Amount *float64
	// AmountRejected is set when the model reported an amount that is not a number.
	AmountRejected bool
	Description    string
	Category       string
	Vendor         string
	Date           string
}

// ParsedOutput is a model answer decoded by either parse tier.
type ParsedOutput struct {
	Expense          *ParsedExpense
	FollowUpQuestion string
	// Confidence is nil when the model omitted it or sent a non-number.
	Confidence   *float64
	Reasoning    string
	FallbackUsed bool
}

// ParseModelOutput decodes raw model text. It tries a strict JSON decode of the
// outermost object first and falls back to field-by-field pattern salvage.
// ErrUnparseable is returned when neither yields anything.
func ParseModelOutput(raw string) (*ParsedOutput, error) {
	if out, ok := parseStrict(raw); ok {
		return out, nil
	}
	if out, ok := salvage(raw); ok {
		return out, nil
	}
	return nil, ErrUnparseable
}

type strictOutput struct {
	Expense          *strictExpense  `json:"expense"`
	FollowUpQuestion *string         `json:"followUpQuestion"`
	Confidence       json.RawMessage `json:"confidence"`
	Reasoning        json.RawMessage `json:"reasoning"`
}

type strictExpense struct {
	Amount      json.RawMessage `json:"amount"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Vendor      *string         `json:"vendor"`
	Date        *string         `json:"date"`
}

var (
	fenceRe         = regexp.MustCompile("```[a-zA-Z]*")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

func parseStrict(raw string) (*ParsedOutput, bool) {
	body := extractObject(fenceRe.ReplaceAllString(raw, ""))
	if body == "" {
		return nil, false
	}

	var decoded strictOutput
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		if err := json.Unmarshal([]byte(trailingCommaRe.ReplaceAllString(body, "$1")), &decoded); err != nil {
			return nil, false
		}
	}

	question := ""
	if decoded.FollowUpQuestion != nil {
		question = strings.TrimSpace(*decoded.FollowUpQuestion)
	}
	if decoded.Expense == nil && question == "" {
		return nil, false
	}

	out := &ParsedOutput{
		FollowUpQuestion: question,
		Confidence:       decodeNumber(decoded.Confidence),
		Reasoning:        decodeText(decoded.Reasoning),
	}
	if e := decoded.Expense; e != nil {
		amount, rejected := decodeAmount(e.Amount)
		out.Expense = &ParsedExpense{
			Amount:         amount,
			AmountRejected: rejected,
			Description:    deref(e.Description),
			Category:       deref(e.Category),
			Vendor:         deref(e.Vendor),
			Date:           deref(e.Date),
		}
	}
	return out, true
}

// extractObject cuts s down to the span between the first '{' and the last '}'.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

var (
	amountRe      = regexp.MustCompile(`"amount"\s*:\s*"?\$?(-?\d+(?:\.\d+)?)`)
	descriptionRe = quotedFieldRe("description")
	categoryRe    = quotedFieldRe("category")
	vendorRe      = quotedFieldRe("vendor")
	dateRe        = regexp.MustCompile(`"date"\s*:\s*"(\d{4}-\d{2}-\d{2})"`)
	questionRe    = quotedFieldRe("followUpQuestion")
)

func quotedFieldRe(field string) *regexp.Regexp {
	return regexp.MustCompile(`"` + field + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
}

// salvage searches the raw text for the individual fields. Only amount,
// description, category and followUpQuestion count towards a usable result;
// vendor and date are picked up when present.
func salvage(raw string) (*ParsedOutput, bool) {
	exp := &ParsedExpense{}
	found := false

	if m := amountRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			exp.Amount = &v
			found = true
		}
	}
	if v, ok := findQuoted(descriptionRe, raw); ok {
		exp.Description = v
		found = true
	}
	if v, ok := findQuoted(categoryRe, raw); ok {
		exp.Category = v
		found = true
	}
	question, hasQuestion := findQuoted(questionRe, raw)
	if hasQuestion {
		found = true
	}
	if !found {
		return nil, false
	}

	if v, ok := findQuoted(vendorRe, raw); ok {
		exp.Vendor = v
	}
	if m := dateRe.FindStringSubmatch(raw); m != nil {
		exp.Date = m[1]
	}

	confidence := SalvageConfidence
	return &ParsedOutput{
		Expense:          exp,
		FollowUpQuestion: question,
		Confidence:       &confidence,
		FallbackUsed:     true,
	}, true
}

func findQuoted(re *regexp.Regexp, raw string) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	v := m[1]
	if unquoted, err := strconv.Unquote(`"` + v + `"`); err == nil {
		v = unquoted
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// decodeAmount accepts a JSON number or a numeric string such as "$4.50".
// A present value that is neither is reported as rejected.
func decodeAmount(raw json.RawMessage) (*float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	if v := decodeNumber(raw); v != nil {
		return v, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, true
	}
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, true
	}
	return &v, false
}

func decodeNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func decodeText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
