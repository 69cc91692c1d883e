package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"budgetbuddy/internal/domain"
)

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_base}_{YYYY-MM-DD}.{format}.
func BuildFilename(base string, format domain.ExportFormat, now time.Time) string {
	sanitized := SanitizeFilename(base)
	if sanitized == "" {
		sanitized = "expenses"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format(domain.DateLayout), format)
}
