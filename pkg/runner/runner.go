package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdparse/internal/logging"
	"github.com/yaklabco/gomdparse/pkg/conformance"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// Factory builds a Parser. Each worker owns the one it builds, since a
// Parser must not be shared between goroutines.
type Factory func() (*parser.Parser, error)

// Runner parses files with a pool of workers.
type Runner struct {
	factory Factory
	logger  *log.Logger
}

// New creates a Runner. A nil logger selects the default logger.
func New(factory Factory, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{factory: factory, logger: logger}
}

// Run discovers files and parses them concurrently. Outcomes are ordered by
// path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, opts, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	r.logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldBlocksTotal, result.Stats.BlocksTotal,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// worker builds its own parser and checker, then processes paths until
// workCh closes.
func (r *Runner) worker(ctx context.Context, opts Options, workCh <-chan string, outCh chan<- FileOutcome) {
	p, setupErr := r.factory()
	var checker *conformance.Checker
	if setupErr == nil && opts.Check {
		checker, setupErr = conformance.New(
			conformance.WithDepth(opts.CheckDepth),
			conformance.WithLogger(r.logger),
		)
	}

	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}
		if setupErr != nil {
			outcome.Error = fmt.Errorf("create parser: %w", setupErr)
		} else {
			outcome = r.process(ctx, p, checker, path)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) process(ctx context.Context, p *parser.Parser, checker *conformance.Checker, path string) FileOutcome {
	doc, err := p.ParseFile(ctx, path)
	return r.finish(ctx, checker, path, doc, err)
}

// RunText parses one in-memory document, such as standard input, the same
// way Run parses a file. Name labels the outcome.
func (r *Runner) RunText(ctx context.Context, opts Options, name, text string) (*Result, error) {
	p, err := r.factory()
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}
	var checker *conformance.Checker
	if opts.Check {
		checker, err = conformance.New(
			conformance.WithDepth(opts.CheckDepth),
			conformance.WithLogger(r.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create checker: %w", err)
		}
	}

	doc, err := p.Parse(ctx, text)
	if doc != nil {
		doc.Source = name
	}

	result := &Result{}
	result.Stats.FilesDiscovered = 1
	result.accumulate(r.finish(ctx, checker, name, doc, err))

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (r *Runner) finish(
	ctx context.Context,
	checker *conformance.Checker,
	path string,
	doc *parser.Document,
	err error,
) FileOutcome {
	outcome := FileOutcome{Path: path}
	if err != nil {
		r.logger.Warn("parse failed", logging.FieldPath, path, logging.FieldError, err)
		outcome.Error = err
		return outcome
	}
	outcome.Document = doc

	if checker != nil {
		check, err := checker.Check(ctx, path, doc.Lines.Reassemble())
		if err != nil {
			r.logger.Warn("conformance check failed", logging.FieldPath, path, logging.FieldError, err)
			outcome.Error = err
			return outcome
		}
		outcome.Conformance = check
	}
	return outcome
}
