package pipeline

import (
	"olx-scraper/config"
	"olx-scraper/parser"
	"olx-scraper/services"
	"olx-scraper/storage"
	"olx-scraper/utils"
)

// Fetcher is the page-fetching capability the fetch stage depends on. The
// chromedp scraper satisfies it in production; tests substitute a fake.
type Fetcher interface {
	Fetch(keyword, outputPath string) error
}

// NewChain wires the four stages into a linear task graph and returns the
// terminal load task. All parameters come from cfg and are fixed for the
// lifetime of the chain.
func NewChain(cfg *config.Config, logger *utils.Logger, fetcher Fetcher) Task {
	fetch := &FetchTask{keyword: cfg.Keyword, output: cfg.HTMLPath, fetcher: fetcher}
	parse := &ParseTask{input: cfg.HTMLPath, output: cfg.ParsedPath, parser: parser.New(logger), requires: fetch}
	transform := &TransformTask{input: cfg.ParsedPath, output: cfg.TransformedPath, cleaner: services.NewCleaner(logger), requires: parse}
	return &LoadTask{
		input:    cfg.TransformedPath,
		output:   cfg.InsertedPath,
		table:    cfg.PostgresTable,
		dsn:      cfg.DSN(),
		logger:   logger,
		requires: transform,
	}
}

// FetchTask materializes the raw page artifact for the search keyword.
type FetchTask struct {
	keyword string
	output  string
	fetcher Fetcher
}

func (t *FetchTask) Name() string   { return "fetch" }
func (t *FetchTask) Output() string { return t.output }
func (t *FetchTask) Requires() Task { return nil }

func (t *FetchTask) Run() error {
	return t.fetcher.Fetch(t.keyword, t.output)
}

// ParseTask turns the raw page into the tabular raw-listing artifact.
type ParseTask struct {
	input    string
	output   string
	parser   *parser.Parser
	requires Task
}

func (t *ParseTask) Name() string   { return "parse" }
func (t *ParseTask) Output() string { return t.output }
func (t *ParseTask) Requires() Task { return t.requires }

func (t *ParseTask) Run() error {
	listings, err := t.parser.ParseFile(t.input)
	if err != nil {
		return err
	}
	return storage.WriteRawCSV(t.output, listings)
}

// TransformTask normalizes the raw listings into typed records.
type TransformTask struct {
	input    string
	output   string
	cleaner  *services.Cleaner
	requires Task
}

func (t *TransformTask) Name() string   { return "transform" }
func (t *TransformTask) Output() string { return t.output }
func (t *TransformTask) Requires() Task { return t.requires }

func (t *TransformTask) Run() error {
	raw, err := storage.ReadRawCSV(t.input)
	if err != nil {
		return err
	}
	return storage.WriteCleanedCSV(t.output, t.cleaner.Clean(raw))
}

// LoadTask inserts the cleaned records into the destination table and dumps
// the inserted set as the audit artifact. The database connection lives
// only for the duration of one Run.
type LoadTask struct {
	input    string
	output   string
	table    string
	dsn      string
	logger   *utils.Logger
	requires Task
}

func (t *LoadTask) Name() string   { return "load" }
func (t *LoadTask) Output() string { return t.output }
func (t *LoadTask) Requires() Task { return t.requires }

func (t *LoadTask) Run() error {
	listings, err := storage.ReadCleanedCSV(t.input)
	if err != nil {
		return err
	}

	db, err := storage.Connect(t.dsn, t.logger)
	if err != nil {
		return err
	}
	pw := storage.NewPostgresWriter(db, t.logger)
	defer pw.Close()

	if err := pw.Insert(t.table, listings); err != nil {
		return err
	}

	// The rows are committed at this point; a failed audit dump only costs
	// the side artifact.
	if err := storage.WriteInsertedJSON(t.output, listings); err != nil {
		t.logger.Warn("[pipeline] load: records committed but audit dump failed: %v", err)
	}
	return nil
}
