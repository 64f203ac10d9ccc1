// Package driver implements the command-agnostic iterate/filter/dispatch
// loop shared by every subcommand (spec §4.F component F), plus the
// concrete per-command sinks built on top of it.
package driver

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/go-marc21/marc21toolkit/internal/filterlang"
	"github.com/go-marc21/marc21toolkit/internal/logging"
	"github.com/go-marc21/marc21toolkit/internal/record"
)

// Options are the flags shared across where-capable commands.
type Options struct {
	Where           string
	StrsimThreshold float64 // 0.0-1.0 ratio
	SkipInvalid     bool
	Progress        bool
}

// CompileWhere parses expr (if non-empty) into an evaluator tree. An empty
// expr means "no predicate" and always matches.
func CompileWhere(expr string, threshold float64) (filterlang.Expr, error) {
	if expr == "" {
		return nil, nil
	}
	return filterlang.Parse(expr, threshold)
}

func newProgressBar(enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("records"),
		progressbar.OptionClearOnFinish(),
	)
}

// Pipeline drives one Decoder over a byte stream, applying an optional
// predicate and an optional skip-invalid policy, ticking a progress bar
// once per record (valid or invalid) consumed from the source.
type Pipeline struct {
	ctx  context.Context
	dec  *record.Decoder
	expr filterlang.Expr
	skip bool
	bar  *progressbar.ProgressBar
}

// NewPipeline constructs a Pipeline reading ISO 2709 records from src.
// Next checks ctx for cancellation between records (spec §5): in-flight
// decoding of a single record is never interrupted mid-way.
func NewPipeline(ctx context.Context, src io.Reader, expr filterlang.Expr, skipInvalid bool, progress bool) *Pipeline {
	return &Pipeline{
		ctx:  ctx,
		dec:  record.NewDecoder(src),
		expr: expr,
		skip: skipInvalid,
		bar:  newProgressBar(progress),
	}
}

// Next returns the next record that passes the predicate, or a non-nil
// error: io.EOF at clean end of stream, ctx.Err() once ctx is done,
// *record.InvalidRecord if skip-invalid is off and an invalid record was
// hit, the decoder's underlying I/O error unwrapped, or the swallow-and-continue
// path taken silently (save for a logged warning) when skip-invalid is on.
//
// onInvalid, if non-nil, is called for every Invalid result the decoder
// produces — including ones later swallowed under skip-invalid — before
// the skip-invalid policy is applied. The `invalid` command uses this to
// capture every malformed record regardless of the abort policy.
func (p *Pipeline) Next(onInvalid func(*record.InvalidRecord)) (*record.Record, error) {
	for {
		if p.ctx != nil {
			if err := p.ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := p.dec.Next()
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
		if err != nil {
			var inv *record.InvalidRecord
			if errors.As(err, &inv) {
				if onInvalid != nil {
					onInvalid(inv)
				}
				if p.skip {
					logging.Warn("skipping invalid record %d: %s", inv.Ordinal, inv.Reason)
					continue
				}
				return nil, inv
			}
			return nil, err
		}
		if p.expr != nil && !filterlang.Eval(p.expr, rec) {
			continue
		}
		return rec, nil
	}
}
