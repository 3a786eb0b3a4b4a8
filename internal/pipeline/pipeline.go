// Package pipeline wires the loader, analyzer, cleaners, reconciler and
// sinks into a single batch run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/loanclean/internal/clean"
	"github.com/leapstack-labs/loanclean/internal/loader"
	"github.com/leapstack-labs/loanclean/internal/quality"
	"github.com/leapstack-labs/loanclean/internal/reconcile"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Sink receives the cleaned dataset. Sinks run in order after cleaning
// and reconciliation have finished; the first failure aborts the run.
type Sink interface {
	Name() string
	Write(ctx context.Context, ds core.Dataset) error
}

// Options selects the inputs of a run.
type Options struct {
	LoansPath     string
	CustomersPath string
	LoanPeriod    int
}

// Result describes a completed run.
type Result struct {
	Dataset  core.Dataset
	Report   quality.Report
	Written  []string // sink names, in write order
	Duration time.Duration
}

// Pipeline runs the cleaning stages.
type Pipeline struct {
	Loader *loader.Loader
	Sinks  []Sink
	Logger *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// New creates a Pipeline. If logger is nil, a discard logger is used.
func New(logger *slog.Logger, sinks ...Sink) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		Loader:   loader.New(logger),
		Sinks:    sinks,
		Logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Analyze loads both extracts and reports their defects without cleaning.
func (p *Pipeline) Analyze(opts Options) (quality.Report, error) {
	loans, customers, err := p.Loader.Load(opts.LoansPath, opts.CustomersPath)
	if err != nil {
		return quality.Report{}, err
	}
	return quality.NewReport(loans, customers), nil
}

// Clean runs both cleaners concurrently, then reconciles customers against
// the cleaned loans.
func (p *Pipeline) Clean(ctx context.Context, loans, customers core.Table, loanPeriod int) (core.Dataset, error) {
	var (
		ds          core.Dataset
		cleanedCust []core.CustomerRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		ds.Loans, ds.LoanStats = clean.CleanLoans(loans, loanPeriod)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		cleanedCust, ds.CustomerStats = clean.CleanCustomers(customers)
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Dataset{}, err
	}

	ds.Placeholders = reconcile.MissingCustomerIDs(cleanedCust, ds.Loans)
	ds.Customers = reconcile.Reconcile(cleanedCust, ds.Loans)
	ds.LoanPeriod = loanPeriod
	return ds, nil
}

// Run executes one full batch: load, analyze, clean, reconcile and write
// to every sink.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	started := p.now()
	runID := p.newRunID()
	log := p.Logger.With(slog.String("run_id", runID))

	if opts.LoanPeriod <= 0 {
		return nil, fmt.Errorf("loan period must be positive, got %d", opts.LoanPeriod)
	}

	loans, customers, err := p.Loader.Load(opts.LoansPath, opts.CustomersPath)
	if err != nil {
		return nil, err
	}

	report := quality.NewReport(loans, customers)
	for _, kc := range report.Summary {
		log.Debug("quality issue", slog.String("kind", string(kc.Kind)), slog.Int("count", kc.Count))
	}
	if !report.Clean() {
		log.Warn("input has data quality issues", slog.Int("issues", len(report.Issues)))
	}

	ds, err := p.Clean(ctx, loans, customers, opts.LoanPeriod)
	if err != nil {
		return nil, err
	}
	ds.RunID = runID
	ds.StartedAt = started
	ds.Issues = report.Issues

	log.Info("cleaned",
		slog.Int("loans_in", ds.LoanStats.Input),
		slog.Int("loans_out", ds.LoanStats.Output),
		slog.Int("customers_in", ds.CustomerStats.Input),
		slog.Int("customers_out", ds.CustomerStats.Output),
		slog.Int("placeholders", len(ds.Placeholders)),
		slog.Int("overdue", ds.LoanStats.Overdue))

	res := &Result{Dataset: ds, Report: report}
	for _, sink := range p.Sinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := sink.Write(ctx, ds); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", sink.Name(), err)
		}
		res.Written = append(res.Written, sink.Name())
	}

	res.Duration = p.now().Sub(started)
	log.Info("run complete", slog.Duration("duration", res.Duration), slog.Any("sinks", res.Written))
	return res, nil
}
