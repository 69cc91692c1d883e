package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserInactive            = errors.New("user is inactive")
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrExpenseNotFound         = errors.New("expense not found")
	ErrExpenseIncomplete       = errors.New("expense is missing amount, description or category")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrAmountTooLarge          = errors.New("amount is too large")
	ErrTextTooLong             = errors.New("description or vendor is too long")
	ErrInvalidCategory         = errors.New("category is not one of the supported categories")
	ErrInvalidDate             = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange        = errors.New("from date must not be after to date")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrExportStorageDisabled   = errors.New("export storage is not configured")
)
