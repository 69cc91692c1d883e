package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/export"
	"budgetbuddy/internal/port"
)

// exportPageSize bounds each repository read while building an export.
const exportPageSize = 500

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportLink points at an uploaded export.
type ExportLink struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders a user's expenses as CSV or XLSX.
type ExportService interface {
	Export(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*ExportFile, error)
	ExportLink(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*ExportLink, error)
}

type exportService struct {
	expenseRepo port.ExpenseRepository
	expenseSvc  ExpenseService
	storage     port.ObjectStorage
	s3Cfg       config.S3Config
	now         func() time.Time
}

// NewExportService creates a new ExportService. storage may be nil, in which
// case ExportLink returns ErrExportStorageDisabled.
func NewExportService(
	expenseRepo port.ExpenseRepository,
	expenseSvc ExpenseService,
	storage port.ObjectStorage,
	s3Cfg config.S3Config,
) ExportService {
	return &exportService{
		expenseRepo: expenseRepo,
		expenseSvc:  expenseSvc,
		storage:     storage,
		s3Cfg:       s3Cfg,
		now:         time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*ExportFile, error) {
	contentType, ok := domain.ExportContentTypes[format]
	if !ok {
		return nil, domain.ErrUnsupportedExportFormat
	}

	expenses, err := s.collect(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case domain.ExportFormatCSV:
		buf.Write(export.BOM)
		w := export.NewCSVWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, fmt.Errorf("writing csv header: %w", err)
		}
		if err := w.WriteExpenses(expenses); err != nil {
			return nil, fmt.Errorf("writing csv rows: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flushing csv: %w", err)
		}
	case domain.ExportFormatXLSX:
		summary, err := s.expenseSvc.Summary(ctx, userID, filter)
		if err != nil {
			return nil, err
		}
		if err := export.WriteXLSX(&buf, expenses, summary); err != nil {
			return nil, err
		}
	}

	return &ExportFile{
		Filename:    export.BuildFilename("expenses", format, s.now()),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) ExportLink(ctx context.Context, userID uuid.UUID, format domain.ExportFormat, filter domain.ExpenseFilter) (*ExportLink, error) {
	if s.storage == nil {
		return nil, domain.ErrExportStorageDisabled
	}

	file, err := s.Export(ctx, userID, format, filter)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/%s.%s", userID, uuid.New(), format)
	if err := s.storage.Put(ctx, port.StoredObject{
		Bucket:       s.s3Cfg.Bucket,
		Key:          key,
		Body:         bytes.NewReader(file.Data),
		Size:         int64(len(file.Data)),
		ContentType:  file.ContentType,
		DownloadName: file.Filename,
	}); err != nil {
		return nil, fmt.Errorf("uploading export: %w", err)
	}

	ttl := time.Duration(s.s3Cfg.PresignExpiry) * time.Second
	url, err := s.storage.PresignGet(ctx, s.s3Cfg.Bucket, key, ttl)
	if err != nil {
		// Nobody can reach the object without a link.
		if delErr := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); delErr != nil {
			return nil, fmt.Errorf("presigning export: %w (cleanup: %v)", err, delErr)
		}
		return nil, fmt.Errorf("presigning export: %w", err)
	}

	return &ExportLink{
		URL:       url,
		Filename:  file.Filename,
		ExpiresAt: s.now().Add(ttl),
	}, nil
}

// collect pages through the repository until every matching expense is read.
func (s *exportService) collect(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var all []domain.Expense
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.expenseRepo.List(ctx, userID, filter, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing expenses for export: %w", err)
		}
		all = append(all, page...)
		if len(page) < exportPageSize || len(all) >= total {
			return all, nil
		}
	}
}
