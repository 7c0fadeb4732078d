// Package pipeline runs the end-to-end bill audit: extract → parse →
// fuse → audit → persist.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/billparse"
	"github.com/gyeh/billaudit/internal/config"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/ocr"
	"github.com/gyeh/billaudit/internal/pdftable"
	"github.com/gyeh/billaudit/internal/refprice"
	"github.com/gyeh/billaudit/internal/scoring"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Pipeline wires the extraction, parsing, and pricing stages together.
type Pipeline struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
	refs *refprice.Model
	ocr  *ocr.Extractor
	pdf  *pdftable.Extractor
}

// New builds a Pipeline. recognizer may be nil when the input is a PDF
// with a text layer; image inputs then fail at extract.
func New(pool *pgxpool.Pool, log zerolog.Logger, recognizer ocr.TextRecognizer) *Pipeline {
	p := &Pipeline{
		pool: pool,
		log:  log,
		refs: refprice.New(pool, log),
		pdf:  pdftable.NewExtractor(),
	}
	if recognizer != nil {
		p.ocr = ocr.NewExtractor(recognizer)
	}
	return p
}

// Run audits one bill file end to end. A bill that yields no extractable
// text still produces an empty low-confidence result rather than an
// error; only infrastructure failures surface as PipelineErrors.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*model.AuditSummary, *model.AuditResult, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	summary := &model.AuditSummary{
		FilePath:     cfg.FilePath,
		AuditBatchID: batchID.String(),
	}

	// Phase 1: Extract
	extractStart := time.Now()
	text, tables, pagesOCRd, err := p.extract(cfg)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "extract", Err: err}
	}
	summary.PagesOCRd = pagesOCRd
	summary.TablesExtracted = len(tables)
	summary.DurationExtract = time.Since(extractStart)
	p.log.Info().
		Int("tables", len(tables)).
		Int("text_bytes", len(text)).
		Str("duration", summary.DurationExtract.String()).
		Msg("extraction complete")

	// Phase 2+3: Parse and fuse
	parseStart := time.Now()
	bill := billFrom(text, tables)
	summary.LineItems = len(bill.LineItems)
	summary.Confidence = bill.Confidence
	summary.DurationParse = time.Since(parseStart)
	p.log.Info().
		Int("line_items", len(bill.LineItems)).
		Str("confidence", string(bill.Confidence)).
		Str("provider", bill.Provider.Name).
		Msg("parse complete")

	// Phase 4: Audit
	auditStart := time.Now()
	if err := p.refs.LoadCatalog(ctx); err != nil {
		return nil, nil, &PipelineError{Phase: "audit", Err: err}
	}
	result := scoring.AuditBill(bill, p.refs)
	summary.IssuesFound = len(result.Issues)
	summary.DurationAudit = time.Since(auditStart)

	// Phase 5: Persist price points
	if cfg.DryRun {
		p.log.Info().Msg("dry run, skipping price point writes")
	} else {
		saved, err := p.persist(ctx, cfg, bill, result, batchID)
		if err != nil {
			return nil, nil, &PipelineError{Phase: "persist", Err: err}
		}
		summary.PricePointsSaved = saved
	}

	summary.DurationTotal = time.Since(totalStart)
	p.log.Info().
		Int("line_items", summary.LineItems).
		Int("issues", summary.IssuesFound).
		Int("price_points", summary.PricePointsSaved).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("audit pipeline complete")

	return summary, result, nil
}

// billFrom parses the page text and folds table rows in. An empty
// extraction still yields a parseable, low-confidence bill.
func billFrom(text string, tables []model.Table) *model.ParsedBill {
	bill := billparse.Parse(text)
	return billparse.FuseTables(bill, tables)
}

// extract routes by file type: PDFs get the table cascade plus the text
// layer, images go through OCR.
func (p *Pipeline) extract(cfg *config.Config) (string, []model.Table, int, error) {
	switch {
	case strings.EqualFold(filepath.Ext(cfg.FilePath), ".pdf"):
		text, tables, err := p.extractPDF(cfg)
		return text, tables, 0, err
	case isImagePath(cfg.FilePath):
		text, err := p.extractImage(cfg.FilePath)
		return text, nil, 1, err
	default:
		return "", nil, 0, fmt.Errorf("unsupported input type: %s", cfg.FilePath)
	}
}

// extractPDF runs table detection and text extraction concurrently;
// they walk independent page decodes of the same file.
func (p *Pipeline) extractPDF(cfg *config.Config) (string, []model.Table, error) {
	var (
		wg        sync.WaitGroup
		text      string
		tables    []model.Table
		textErr   error
		tablesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tables, tablesErr = p.pdf.ExtractTables(cfg.FilePath, cfg.Pages, cfg.Flavor)
	}()
	go func() {
		defer wg.Done()
		text, textErr = p.pdf.ExtractText(cfg.FilePath, cfg.Pages)
	}()
	wg.Wait()

	if tablesErr != nil {
		return "", nil, tablesErr
	}
	if textErr != nil {
		return "", nil, textErr
	}
	return text, tables, nil
}

func (p *Pipeline) extractImage(path string) (string, error) {
	if p.ocr == nil {
		return "", fmt.Errorf("no OCR recognizer configured for image input")
	}
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	page, err := p.ocr.Extract(ocr.Preprocess(img))
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return page.PageText, nil
}

// persist records one price point per matched line and bumps the
// hospital's running counters. Unmatched lines carry no procedure and
// are skipped; they already surfaced as unverifiable issues.
func (p *Pipeline) persist(ctx context.Context, cfg *config.Config, bill *model.ParsedBill, result *model.AuditResult, batchID uuid.UUID) (int, error) {
	var hospital *model.Hospital
	name := cfg.HospitalName
	if name == "" {
		name = bill.Provider.Name
	}
	if name != "" {
		h, err := p.refs.ResolveHospital(ctx, name, cfg.HospitalCity)
		if err != nil {
			return 0, err
		}
		hospital = h
	}

	conf := pointConfidence(bill.Confidence)
	saved := 0
	for _, line := range result.Lines {
		if line.ProcedureID == nil {
			continue
		}
		_, err := p.refs.RecordPricePoint(ctx, refprice.Observation{
			ProcedureID:   *line.ProcedureID,
			Hospital:      hospital,
			ChargedAmount: line.Amount,
			Source:        model.SourceUserBill,
			AuditBatchID:  &batchID,
			Confidence:    conf,
		})
		if err != nil {
			return saved, err
		}
		saved++
	}

	if hospital != nil && saved > 0 {
		if err := p.refs.NoteBillAnalyzed(ctx, hospital.ID, int64(saved)); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// pointConfidence maps the parse-quality tier onto the stored
// observation confidence.
func pointConfidence(c model.Confidence) float64 {
	switch c {
	case model.ConfidenceHigh:
		return 0.8
	case model.ConfidenceMedium:
		return 0.5
	default:
		return 0.3
	}
}

func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}
