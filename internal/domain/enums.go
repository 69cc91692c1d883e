package domain

import "strings"

// Category is one entry of the closed expense category vocabulary.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryEducation      Category = "Education"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryOther          Category = "Other"
)

// Categories lists the vocabulary in display order.
var Categories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryEducation,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryBillsUtilities,
	CategoryOther,
}

// ValidCategories is the set form of Categories.
var ValidCategories = map[Category]bool{
	CategoryFoodDining:     true,
	CategoryTransportation: true,
	CategoryEducation:      true,
	CategoryEntertainment:  true,
	CategoryHealthcare:     true,
	CategoryShopping:       true,
	CategoryBillsUtilities: true,
	CategoryOther:          true,
}

// NormalizeCategory returns the vocabulary entry for s, or CategoryOther when
// s is not a member. Matching is exact after trimming surrounding spaces.
func NormalizeCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	if ValidCategories[c] {
		return c
	}
	return CategoryOther
}

// ExpenseSource records how an expense was entered.
type ExpenseSource string

const (
	ExpenseSourceManual ExpenseSource = "manual"
	ExpenseSourceChat   ExpenseSource = "chat"
)

// ExportFormat is a supported expense export file format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps export formats to their MIME type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DateLayout is the ISO calendar date layout used for expense dates.
const DateLayout = "2006-01-02"
