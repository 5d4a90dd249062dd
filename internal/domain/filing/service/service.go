// Package service provides the filing orchestration logic: import, validate,
// fix, classify and generate, in that order.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/classifier"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/generator"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/parser"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/repository"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/validator"
	"github.com/FACorreiaa/gst-filing/internal/domain/profile"
	"github.com/FACorreiaa/gst-filing/pkg/gstin"
	"github.com/FACorreiaa/gst-filing/pkg/storage"
)

// ErrGenerationBlocked is returned when error-severity rows remain in the set.
var ErrGenerationBlocked = errors.New("generation blocked: records still carry errors")

// ErrUnsupportedFormat is returned for uploads that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")

// ErrBadPeriod is returned when the filing period is not MMYYYY.
var ErrBadPeriod = errors.New("filing period must be MMYYYY, e.g. 012026")

// FilingService orchestrates the end-to-end GSTR-1 pipeline
type FilingService struct {
	profiles  *profile.Repository    // Optional: nil without a database
	returns   *repository.Repository // Optional: nil without a database
	store     storage.Storage        // Optional: nil disables artifact persistence
	chunkSize int                    // Optional: 0 uses the validator default
	logger    *slog.Logger
}

// NewFilingService creates a new filing service
func NewFilingService(logger *slog.Logger) *FilingService {
	return &FilingService{logger: logger}
}

// WithProfiles adds seller-profile support to the filing service
func (s *FilingService) WithProfiles(profiles *profile.Repository) *FilingService {
	s.profiles = profiles
	return s
}

// WithReturns adds filed-return history support to the filing service
func (s *FilingService) WithReturns(returns *repository.Repository) *FilingService {
	s.returns = returns
	return s
}

// WithStorage adds artifact persistence to the filing service
func (s *FilingService) WithStorage(store storage.Storage) *FilingService {
	s.store = store
	return s
}

// WithChunkSize overrides the progress-validation batch size
func (s *FilingService) WithChunkSize(n int) *FilingService {
	s.chunkSize = n
	return s
}

// Import reads an uploaded sales export and parses it into invoice records.
// The format is chosen by file extension.
func (s *FilingService) Import(ctx context.Context, filename string, r io.Reader) (*parser.Result, error) {
	var grid [][]parser.Cell
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err = parser.ReadXLSX(r)
	case ".csv":
		grid, err = parser.ReadCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	result := parser.Parse(grid)
	s.logger.Info("file imported",
		"file", filename,
		"platform", result.Platform,
		"total_rows", result.TotalRows,
		"parsed_rows", result.ParsedRows,
		"skipped_rows", result.SkippedRows,
	)
	return result, nil
}

// Validate runs the rule set for the period and returns the summary.
func (s *FilingService) Validate(ctx context.Context, records []*invoice.Record, period string) (validator.Summary, error) {
	if !ValidPeriod(period) {
		return validator.Summary{}, ErrBadPeriod
	}
	if err := validator.ValidateWithProgress(ctx, records, period, s.chunkSize, nil); err != nil {
		return validator.Summary{}, err
	}

	summary := validator.Summarize(records)
	s.logger.Info("validation complete",
		"records", summary.Total,
		"errors", summary.TotalErrors,
		"warnings", summary.TotalWarnings,
		"error_rows", summary.ErrorRows,
	)
	return summary, nil
}

// AutoFix applies the safe corrections and re-validates, returning the
// post-fix summary and the number of records changed.
func (s *FilingService) AutoFix(ctx context.Context, records []*invoice.Record, period string) (validator.Summary, int, error) {
	fixed := validator.FixAll(records)
	s.logger.Info("auto-fix applied", "records_changed", fixed)

	summary, err := s.Validate(ctx, records, period)
	return summary, fixed, err
}

// UndoFix rolls every fixed record back to its parsed state and re-validates.
func (s *FilingService) UndoFix(ctx context.Context, records []*invoice.Record, period string) (validator.Summary, int, error) {
	undone := 0
	for _, rec := range records {
		if validator.Undo(rec) {
			undone++
		}
	}
	s.logger.Info("auto-fix undone", "records_restored", undone)

	summary, err := s.Validate(ctx, records, period)
	return summary, undone, err
}

// GenerateResult bundles the artifacts of a successful generation run.
type GenerateResult struct {
	Return         *generator.Return
	Classification *classifier.Classification
	Summary        classifier.Summary
	JSON           []byte
	Workbook       []byte
	JSONArtifact   *storage.ArtifactInfo
	XLSXArtifact   *storage.ArtifactInfo
	Saved          *repository.FiledReturn
	Warnings       []string
}

// Generate validates, classifies and emits the portal JSON and review
// workbook for the period. Error-severity rows block generation; warnings
// and info findings do not.
func (s *FilingService) Generate(ctx context.Context, records []*invoice.Record, sellerGSTIN, period string) (*GenerateResult, error) {
	if _, err := s.Validate(ctx, records, period); err != nil {
		return nil, err
	}
	if n := invoice.ErrorCount(records); n > 0 {
		s.logger.Warn("generation blocked", "error_count", n)
		return nil, fmt.Errorf("%w (%d errors)", ErrGenerationBlocked, n)
	}

	var activeProfile *profile.Profile
	if s.profiles != nil {
		p, err := s.profiles.GetActive(ctx)
		switch {
		case errors.Is(err, profile.ErrNotFound):
			// Fall through to the explicit seller GSTIN.
		case err != nil:
			return nil, fmt.Errorf("resolve active profile: %w", err)
		default:
			activeProfile = p
			if sellerGSTIN == "" {
				sellerGSTIN = p.GSTIN
			}
		}
	}
	if sellerGSTIN == "" {
		return nil, errors.New("no seller GSTIN: create a profile or pass one explicitly")
	}

	c := classifier.Classify(records, gstin.StateCode(sellerGSTIN))
	ret := generator.Build(records, c, sellerGSTIN, period)

	var jsonBuf bytes.Buffer
	if err := generator.WriteJSON(&jsonBuf, ret); err != nil {
		return nil, err
	}
	var xlsxBuf bytes.Buffer
	if err := generator.WriteWorkbook(&xlsxBuf, records, c); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Return:         ret,
		Classification: c,
		Summary:        classifier.Summarize(records, c),
		JSON:           jsonBuf.Bytes(),
		Workbook:       xlsxBuf.Bytes(),
		Warnings:       c.Warnings,
	}

	if s.store != nil && activeProfile != nil {
		jsonInfo, err := s.store.Save(ctx, activeProfile.ID, generator.FileName(period, "json"),
			"application/json", bytes.NewReader(result.JSON))
		if err != nil {
			return nil, fmt.Errorf("store JSON artifact: %w", err)
		}
		result.JSONArtifact = jsonInfo

		xlsxInfo, err := s.store.Save(ctx, activeProfile.ID, generator.FileName(period, "xlsx"),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			bytes.NewReader(result.Workbook))
		if err != nil {
			return nil, fmt.Errorf("store workbook artifact: %w", err)
		}
		result.XLSXArtifact = xlsxInfo
	}

	if s.returns != nil && activeProfile != nil {
		saved, err := s.returns.Save(ctx, buildFiledReturn(activeProfile.ID, period, result))
		if err != nil {
			return nil, fmt.Errorf("record return: %w", err)
		}
		result.Saved = saved
	}

	s.logger.Info("return generated",
		"gstin", sellerGSTIN,
		"period", period,
		"b2b_parties", len(c.B2B),
		"b2cs_groups", len(c.B2CS),
		"hsn_rows", len(c.HSN),
		"warnings", len(c.Warnings),
	)
	return result, nil
}

func buildFiledReturn(profileID uuid.UUID, period string, result *GenerateResult) *repository.FiledReturn {
	sum := result.Summary
	ret := &repository.FiledReturn{
		ID:           uuid.New(),
		ProfileID:    profileID,
		FilingPeriod: period,
		Status:       repository.StatusGenerated,
		InvoiceCount: sum.TotalInvoices,
		B2BCount:     sum.B2BCount,
		B2CSCount:    sum.B2CSCount,
		HSNCount:     sum.HSNCount,
		TotalTaxable: decimal.NewFromFloat(sum.TotalTaxable),
		TotalTax:     decimal.NewFromFloat(sum.TotalTax),
	}
	if result.JSONArtifact != nil {
		ret.JSONArtifactID = &result.JSONArtifact.ID
	}
	if result.XLSXArtifact != nil {
		ret.XLSXArtifactID = &result.XLSXArtifact.ID
	}
	return ret
}

// ValidPeriod reports whether period is a plausible MMYYYY filing period.
func ValidPeriod(period string) bool {
	if len(period) != 6 {
		return false
	}
	month, err := strconv.Atoi(period[:2])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(period[2:])
	return err == nil && year >= 2017 // GST came into force in July 2017
}
