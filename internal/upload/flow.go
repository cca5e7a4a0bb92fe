package upload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/WajidKarimm/legalease-ai/internal/api"
	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/monitor"
	"github.com/WajidKarimm/legalease-ai/internal/progress"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

// ProcessingSteps are shown while the backend analyzes a document
var ProcessingSteps = []string{
	"Extracting text...",
	"Identifying clauses...",
	"Analyzing risks...",
	"Comparing with database...",
	"Generating insights...",
}

// Analyzer submits a document for analysis
type Analyzer interface {
	AnalyzeContract(ctx context.Context, file api.File) (*contract.AnalysisResult, error)
}

// Recorder persists a finished analysis as the current contract
type Recorder interface {
	SetAnalysis(ctx context.Context, meta contract.Metadata, result *contract.AnalysisResult) error
}

// Result is a successfully processed upload
type Result struct {
	ContractID string
	Metadata   contract.Metadata
	Analysis   *contract.AnalysisResult
}

// Options configures a Flow
type Options struct {
	Reporter  progress.Reporter
	Logger    *logger.Logger
	Metrics   *monitor.Recorder
	StepDelay time.Duration
	Now       func() time.Time
}

// Flow validates, uploads and records documents
type Flow struct {
	analyzer  Analyzer
	recorder  Recorder
	reporter  progress.Reporter
	log       *logger.Logger
	metrics   *monitor.Recorder
	stepDelay time.Duration
	now       func() time.Time
}

// NewFlow creates an upload flow
func NewFlow(analyzer Analyzer, recorder Recorder, opts Options) *Flow {
	f := &Flow{
		analyzer:  analyzer,
		recorder:  recorder,
		reporter:  opts.Reporter,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		stepDelay: opts.StepDelay,
		now:       opts.Now,
	}
	if f.reporter == nil {
		f.reporter = progress.Nop{}
	}
	if f.log == nil {
		f.log = logger.Nop()
	}
	f.log = f.log.WithComponent("upload")
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Process runs one document through validation and analysis. Nothing is
// stored unless every step succeeds.
func (f *Flow) Process(ctx context.Context, doc Document) (res *Result, err error) {
	defer func() { f.metrics.ObserveUpload(err) }()

	if err := Validate(doc); err != nil {
		f.log.WarnWithFields("document rejected", []logger.Field{logger.F("file", doc.Name), logger.Error(err)})
		return nil, err
	}
	if doc.Open == nil {
		return nil, fmt.Errorf("document %s has no content", doc.Name)
	}

	content, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", doc.Name, err)
	}
	defer func() { _ = content.Close() }()

	f.log.InfoWithFields("uploading document", []logger.Field{
		logger.F("file", doc.Name), logger.F("size", FormatFileSize(doc.Size)),
	})

	stop := f.showSteps()
	analysis, err := f.analyzer.AnalyzeContract(ctx, api.File{
		Name:        doc.Name,
		ContentType: doc.ContentType,
		Content:     content,
	})
	stop(err == nil)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", doc.Name, err)
	}

	uploadedAt := f.now()
	id := analysis.ContractID
	if id == "" {
		id = state.FallbackContractID(uploadedAt)
	}

	meta := contract.Metadata{ID: id, Filename: doc.Name, UploadDate: uploadedAt}
	if err := f.recorder.SetAnalysis(ctx, meta, analysis); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	f.log.InfoWithFields("analysis stored", []logger.Field{logger.Contract(id), logger.Count(len(analysis.Clauses))})
	return &Result{ContractID: id, Metadata: meta, Analysis: analysis}, nil
}

// showSteps advances through ProcessingSteps every stepDelay while the
// request runs, holding on the last step until stop is called
func (f *Flow) showSteps() func(ok bool) {
	total := len(ProcessingSteps)
	f.reporter.Start(total)
	f.reporter.Update(1, ProcessingSteps[0])

	done := make(chan struct{})
	var wg sync.WaitGroup
	if f.stepDelay > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(f.stepDelay)
			defer ticker.Stop()
			for step := 2; step < total; step++ {
				select {
				case <-done:
					return
				case <-ticker.C:
					f.reporter.Update(step, ProcessingSteps[step-1])
				}
			}
		}()
	}

	var once sync.Once
	return func(ok bool) {
		once.Do(func() {
			close(done)
			wg.Wait()
			if ok {
				f.reporter.Update(total, ProcessingSteps[total-1])
			}
			f.reporter.Finish()
		})
	}
}
