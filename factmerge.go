// Package factmerge extracts facts from CSV, PDF and text files and
// reconciles them into one deduplicated set, reporting fields whose values
// disagree.
//
//	m, err := factmerge.New(factmerge.WithWorkers(8))
//	if err != nil {
//		return err
//	}
//	result, err := m.Merge(ctx, []factmerge.File{
//		factmerge.FromPath("customers.csv"),
//		factmerge.FromPath("invoice.pdf"),
//	})
package factmerge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/extract"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
	"github.com/agentstation/factmerge/pkg/logging"
	"github.com/agentstation/factmerge/pkg/normalize"
	"github.com/agentstation/factmerge/pkg/provenance"
	"github.com/agentstation/factmerge/pkg/reconciler"
)

// Merger runs extraction and reconciliation over a set of files. A Merger is
// safe for concurrent use; merges share nothing but immutable tables.
type Merger struct {
	*hooks
	config     *config
	normalizer *normalize.Normalizer
	reconciler reconciler.Reconciler
}

// New creates a Merger.
func New(opts ...Option) (*Merger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	canonicalizer := fields.NewCanonicalizer(cfg.tables)
	n, err := normalize.New(
		normalize.WithCanonicalizer(canonicalizer),
		normalize.WithRegion(cfg.region),
	)
	if err != nil {
		return nil, err
	}
	r, err := reconciler.New(
		reconciler.WithCanonicalizer(canonicalizer),
		reconciler.WithThreshold(cfg.threshold),
	)
	if err != nil {
		return nil, err
	}

	return &Merger{
		hooks:      newHooks(),
		config:     cfg,
		normalizer: n,
		reconciler: r,
	}, nil
}

// Normalizer returns the normalizer used for extracted values.
func (m *Merger) Normalizer() *normalize.Normalizer {
	return m.normalizer
}

// Merge extracts every file and reconciles the result. Files are extracted
// concurrently but their facts keep file order, then document order. A file
// that cannot be extracted is logged and skipped. Merge only fails when ctx
// is canceled or the extracted facts are invalid.
func (m *Merger) Merge(ctx context.Context, files []File) (*facts.MergeResult, error) {
	logger := logging.FromContext(ctx)

	slots := make([][]facts.Fact, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.config.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			extracted, err := m.extract(gctx, file)
			if err != nil {
				if errors.IsCanceled(err) || gctx.Err() != nil {
					return err
				}
				logger.Warn().Err(err).Str("file", file.Name).Msg("Skipping file")
				m.fileSkipped(file.Name, err)
				return nil
			}
			logger.Info().Str("file", file.Name).Int("facts", len(extracted)).Msg("Extracted facts")
			slots[i] = extracted
			m.fileExtracted(file.Name, extracted)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	var all []facts.Fact
	for _, s := range slots {
		all = append(all, s...)
	}
	return m.MergeFacts(ctx, all, len(files))
}

// MergeFacts reconciles already extracted facts. filesProcessed is reported
// as the result's TotalFilesProcessed.
func (m *Merger) MergeFacts(ctx context.Context, in []facts.Fact, filesProcessed int) (*facts.MergeResult, error) {
	if err := facts.Validate(in); err != nil {
		return nil, err
	}

	reconciled := m.reconciler.Facts(ctx, in)
	merged := facts.Sort(reconciled.MergedFacts)
	result := &facts.MergeResult{
		MergedFacts:         merged,
		Conflicts:           reconciled.Conflicts,
		TotalFilesProcessed: filesProcessed,
		TotalFactsExtracted: len(in),
		TotalFactsMerged:    len(merged),
	}

	logger := logging.FromContext(ctx)
	logger.Info().
		Int("files", filesProcessed).
		Int("extracted", result.TotalFactsExtracted).
		Int("merged", result.TotalFactsMerged).
		Int("conflicts", len(result.Conflicts)).
		Msg("Merged facts")

	if m.config.audit {
		audit := provenance.Audit(in, result)
		for _, issue := range audit.Issues {
			logger.Error().Str("issue", issue).Msg("Audit failed")
		}
		for _, warning := range audit.Warnings {
			logger.Warn().Str("warning", warning).Msg("Audit warning")
		}
	}

	m.conflicts(result.Conflicts)
	return result, nil
}

func (m *Merger) extract(ctx context.Context, file File) ([]facts.Fact, error) {
	x, err := extract.ForFile(file.Name, m.normalizer)
	if err != nil {
		return nil, err
	}
	if file.Open == nil {
		return nil, &errors.ValidationError{Field: "file", Value: file.Name, Message: "nothing to open"}
	}

	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	return x.Extract(logging.WithOperation(ctx, "extract"), file.Name, &sizeLimitedReader{
		r:    rc,
		name: file.Name,
		max:  m.config.maxFileSize,
	})
}
