// Package pipeline orchestrates one deal submission processing request:
// configuration documents in, standardized rows and summaries out.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"rehub/dealsub/internal/config"
	"rehub/dealsub/internal/fieldscan"
	"rehub/dealsub/internal/locator"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/mapping"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/procerror"
	"rehub/dealsub/internal/projector"
	"rehub/dealsub/internal/report"
	"rehub/dealsub/internal/workbook"
)

// Request is one submission to process.
type Request struct {
	// FileName is the uploaded file's name, used in summaries only.
	FileName string
	Company  string
	DealName string
	// Content is the uploaded workbook.
	Content io.Reader
}

// Processor runs the standardization pipeline. Safe for concurrent use: the
// configuration documents are re-read per request unless caching is enabled,
// and the optional cache is the only shared mutable state.
type Processor struct {
	mappingRulesPath   string
	outputTemplatePath string

	locator   *locator.Locator
	scanner   *fieldscan.Scanner
	generator *report.Generator
	logger    logging.Logger

	cache *documentCache
}

// New builds a processor from configuration.
func New(cfg *config.Config, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	p := &Processor{
		mappingRulesPath:   cfg.Data.MappingRulesPath,
		outputTemplatePath: cfg.Data.OutputTemplatePath,
		locator:            locator.New(cfg.Extraction.HeaderMarker, cfg.Extraction.StopMarker, cfg.Extraction.StopColumn, logger),
		scanner:            fieldscan.New(logger),
		generator:          report.NewGenerator(logger),
		logger:             logger,
	}
	if cfg.Data.CacheDocuments {
		p.cache = newDocumentCache()
	}
	return p
}

// Process runs the whole pipeline for one request. Structure and
// configuration failures abort the request; deal-header and zone extraction
// are best-effort and never do.
func (p *Processor) Process(ctx context.Context, req Request) (*models.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := p.loadRepository()
	if err != nil {
		return nil, err
	}
	schema, err := p.loadSchema()
	if err != nil {
		return nil, err
	}

	sheetName, err := repo.Resolve(req.Company, mapping.DefaultCategory)
	if err != nil {
		return nil, err
	}
	mappings := repo.ColumnsFor(sheetName)
	if len(mappings) == 0 {
		return nil, &procerror.ConfigurationMissingError{
			Company:  req.Company,
			Category: mapping.DefaultCategory,
			Document: p.mappingRulesPath,
			Err:      fmt.Errorf("mapping sheet '%s' is empty or missing", sheetName),
		}
	}

	content, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, fmt.Errorf("error reading uploaded file: %w", err)
	}
	sheet, err := workbook.Load(bytes.NewReader(content), p.logger)
	if err != nil {
		return nil, err
	}

	extraction := p.scanner.Scan(sheet, req.DealName)

	region, err := p.locator.Locate(sheet)
	if err != nil {
		return nil, err
	}

	proj := projector.New(schema, mappings, p.logger)
	rows := proj.Project(region.Rows, extraction.ZoneSelection)

	in := report.Input{
		Company:       req.Company,
		FileName:      req.FileName,
		MappingSheet:  sheetName,
		HeaderRow:     region.HeaderRow,
		StopRow:       region.StopRow,
		DataRows:      len(region.Rows),
		InputColumns:  len(region.Headers),
		OutputColumns: len(schema),
		Stats:         proj.Stats(),
		DealHeader:    extraction.DealHeader,
	}
	html, err := p.generator.HTML(in)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Processed deal submission",
		logging.Field{Key: logging.FieldFile, Value: req.FileName},
		logging.Field{Key: logging.FieldCompany, Value: req.Company},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return &models.Result{
		Rows:        rows,
		Schema:      schema,
		TextSummary: p.generator.Text(in),
		HTMLSummary: html,
		Company:     req.Company,
		DealHeader:  extraction.DealHeader,
	}, nil
}

// Companies lists the companies configured in the mapping rules document.
func (p *Processor) Companies() ([]string, error) {
	repo, err := p.loadRepository()
	if err != nil {
		return nil, err
	}
	return repo.Companies(), nil
}

func (p *Processor) loadRepository() (*mapping.Repository, error) {
	if p.cache == nil {
		return mapping.Load(p.mappingRulesPath, p.logger)
	}
	v, err := p.cache.get(p.mappingRulesPath, func() (any, error) {
		return mapping.Load(p.mappingRulesPath, p.logger)
	})
	if err != nil {
		return nil, err
	}
	return v.(*mapping.Repository), nil
}

func (p *Processor) loadSchema() ([]string, error) {
	if p.cache == nil {
		return mapping.LoadOutputSchema(p.outputTemplatePath, p.logger)
	}
	v, err := p.cache.get(p.outputTemplatePath, func() (any, error) {
		return mapping.LoadOutputSchema(p.outputTemplatePath, p.logger)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// documentCache caches parsed configuration documents keyed by modification
// time, so an edited document is picked up on the next request.
type documentCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	value   any
}

func newDocumentCache() *documentCache {
	return &documentCache{entries: make(map[string]cacheEntry)}
}

func (c *documentCache) get(path string, load func() (any, error)) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &procerror.ConfigurationMissingError{Document: path, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[path]; ok && entry.modTime.Equal(info.ModTime()) {
		return entry.value, nil
	}

	value, err := load()
	if err != nil {
		return nil, err
	}
	c.entries[path] = cacheEntry{modTime: info.ModTime(), value: value}
	return value, nil
}
