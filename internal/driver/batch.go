package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quoted/internal/ast"
	"quoted/internal/diag"
	"quoted/internal/dump"
	"quoted/internal/observ"
	"quoted/internal/parser"
	"quoted/internal/source"
	"quoted/internal/trace"
)

// ErrMissingHeader is the cause of a segment that has no header separator.
var ErrMissingHeader = errors.New("segment has no header separator")

// BatchOptions configure Parse-many.
type BatchOptions struct {
	Options
	Policy Policy
	// Jobs bounds parallel segment parsing; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Cache    *Cache // nil disables caching
}

// SegmentResult is the outcome of one segment. For a processed segment
// exactly one of Expr and Err is set; a Skipped segment has neither.
type SegmentResult struct {
	Segment dump.Segment
	Expr    ast.Expr
	Err     error // *parser.Error or wrapped ErrMissingHeader
	Bag     *diag.Bag
	Cached  bool
	Skipped bool
	Elapsed time.Duration
}

// OK reports whether the segment parsed.
func (r *SegmentResult) OK() bool { return !r.Skipped && r.Err == nil }

// BatchResult is the outcome of Parse-many. Segments are in batch order.
type BatchResult struct {
	RunID    string
	FileSet  *source.FileSet
	File     *source.File // nil when the batch did not decode
	Segments []SegmentResult
	Bag      *diag.Bag // every segment's diagnostics, in batch order
	Timer    *observ.Timer
	// Err is set when the batch itself could not be decoded.
	Err *parser.Error
}

// Counts returns how many segments parsed, failed and were skipped.
func (r *BatchResult) Counts() (ok, failed, skipped int) {
	for i := range r.Segments {
		switch s := &r.Segments[i]; {
		case s.Skipped:
			skipped++
		case s.Err != nil:
			failed++
		default:
			ok++
		}
	}
	return ok, failed, skipped
}

// FirstError returns the failure of the earliest failed segment, if any.
func (r *BatchResult) FirstError() (*SegmentResult, bool) {
	for i := range r.Segments {
		if s := &r.Segments[i]; !s.Skipped && s.Err != nil {
			return s, true
		}
	}
	return nil, false
}

// ParseBatch reads the batch dump at path and parses every segment.
// Segment failures are results; the error is only set for read failures
// and context cancellation.
func ParseBatch(ctx context.Context, path string, opts BatchOptions) (*BatchResult, error) {
	res := newBatchResult(opts)
	done := res.Timer.Track("load")
	file, err := readInput(res.FileSet, path, res.Bag)
	done("")
	if file == nil {
		return res.failLoad(err)
	}
	return res, res.run(ctx, file, opts)
}

// ParseBatchText is ParseBatch over in-memory bytes, e.g. collaborator stdout.
func ParseBatchText(ctx context.Context, name string, raw []byte, opts BatchOptions) (*BatchResult, error) {
	res := newBatchResult(opts)
	done := res.Timer.Track("decode")
	file, err := addInput(res.FileSet, name, raw, res.Bag)
	done("")
	if file == nil {
		return res.failLoad(err)
	}
	return res, res.run(ctx, file, opts)
}

func newBatchResult(opts BatchOptions) *BatchResult {
	return &BatchResult{
		RunID:   uuid.NewString(),
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.maxDiagnostics()),
		Timer:   observ.NewTimer(),
	}
}

func (res *BatchResult) failLoad(err error) (*BatchResult, error) {
	pe, ok := parser.AsError(err)
	if !ok {
		return nil, err
	}
	res.Err = pe
	return res, nil
}

func (res *BatchResult) run(ctx context.Context, file *source.File, opts BatchOptions) error {
	res.File = file
	ctx, sp := trace.Start(ctx, trace.ScopeDriver, "batch")
	sp.Set("run_id", res.RunID).Set("policy", opts.Policy.String())
	started := time.Now()

	done := res.Timer.Track("split")
	segs, err := dump.Split(file)
	done(fmt.Sprintf("%d segments", len(segs)))
	if err != nil {
		sp.Fail("split: " + err.Error())
		return err
	}
	emit(opts.Progress, Event{Segment: -1, Stage: StageSplit, Status: StatusDone, Elapsed: time.Since(started)})

	res.Segments = make([]SegmentResult, len(segs))
	for i, seg := range segs {
		res.Segments[i] = SegmentResult{Segment: seg}
		emit(opts.Progress, Event{Segment: i, Label: seg.Name(), Stage: StageParse, Status: StatusQueued})
	}

	done = res.Timer.Track("segments")
	err = res.parseSegments(ctx, file, opts)
	done("")

	res.settle(opts)

	ok, failed, skipped := res.Counts()
	status := StatusDone
	if failed > 0 {
		status = StatusError
	}
	emit(opts.Progress, Event{Segment: -1, Stage: StageParse, Status: status, Elapsed: time.Since(started)})
	sp.Set("ok", fmt.Sprint(ok)).Set("failed", fmt.Sprint(failed)).Set("skipped", fmt.Sprint(skipped))
	if failed > 0 {
		sp.Fail(string(status))
	} else {
		sp.End(string(status))
	}

	if opts.Timings {
		addTimings(res.Bag, timingNote{
			Kind:     "batch",
			Path:     file.Path,
			RunID:    res.RunID,
			Segments: len(segs),
			Report:   res.Timer.Report(),
		})
	}
	return err
}

// parseSegments parses segments on an errgroup bounded by Jobs. Under
// StopOnError a worker skips any segment after the earliest failure seen
// so far; settle then trims the results to what a sequential run produces.
func (res *BatchResult) parseSegments(ctx context.Context, file *source.File, opts BatchOptions) error {
	if len(res.Segments) == 0 {
		return nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var firstFail atomic.Int64
	firstFail.Store(int64(len(res.Segments)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(res.Segments)))

	for i := range res.Segments {
		g.Go(func() error {
			// Cancellation
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			r := &res.Segments[i]
			if opts.Policy == StopOnError && int64(i) > firstFail.Load() {
				r.Skipped = true
				return nil
			}
			res.parseSegment(gctx, file, r, opts)
			if r.Err != nil && opts.Policy == StopOnError {
				for {
					cur := firstFail.Load()
					if int64(i) >= cur || firstFail.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}

	// each worker writes only its own index
	return g.Wait()
}

func (res *BatchResult) parseSegment(ctx context.Context, file *source.File, r *SegmentResult, opts BatchOptions) {
	seg := r.Segment
	ctx, sp := trace.Start(ctx, trace.ScopeSegment, "segment:"+seg.Name())
	started := time.Now()
	r.Bag = diag.NewBag(opts.maxDiagnostics())
	emit(opts.Progress, Event{Segment: seg.Index, Label: seg.Name(), Stage: StageParse, Status: StatusWorking})

	defer func() {
		r.Elapsed = time.Since(started)
		res.Timer.Add("parse segment", r.Elapsed)
		status := StatusDone
		if r.Err != nil {
			status = StatusError
		}
		stage := StageParse
		if r.Cached {
			stage = StageCache
			sp.Set("cache", "hit")
		}
		emit(opts.Progress, Event{Segment: seg.Index, Label: seg.Name(), Stage: stage, Status: status, Err: r.Err, Elapsed: r.Elapsed})
		if r.Err != nil {
			sp.Fail(r.Err.Error())
			return
		}
		sp.End(string(status))
	}()

	if !seg.HasHeader {
		r.Bag.Add(diag.NewError(diag.DumpMissingHeader,
			source.Span{File: seg.Span.File, Start: seg.Span.Start, End: seg.Span.Start},
			fmt.Sprintf("segment #%d has no header separator %q", seg.Index, dump.HeaderSeparator)))
		r.Err = fmt.Errorf("segment #%d: %w", seg.Index, ErrMissingHeader)
		return
	}

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor([]byte(seg.Body), opts.Mode)
		expr, hit, err := opts.Cache.Get(key)
		if err != nil {
			sp.Point(trace.ScopeSegment, "cache", err.Error())
		}
		if hit {
			r.Expr, r.Cached = expr, true
			return
		}
	}

	expr, err := parser.ParseRange(ctx, file, seg.BodySpan, parser.Options{
		Mode:     opts.Mode,
		Reporter: diag.BagReporter{Bag: r.Bag},
	})
	if err != nil {
		r.Err = err
		return
	}
	r.Expr = expr

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, seg.Label, res.RunID, expr); err != nil {
			sp.Point(trace.ScopeSegment, "cache", err.Error())
		}
	}
}

// settle makes StopOnError results deterministic: everything after the
// earliest failure is Skipped whether or not a worker got to it. Segment
// bags are then merged into the batch bag in batch order.
func (res *BatchResult) settle(opts BatchOptions) {
	stop := len(res.Segments)
	if opts.Policy == StopOnError {
		for i := range res.Segments {
			if s := &res.Segments[i]; !s.Skipped && s.Err != nil {
				stop = i
				break
			}
		}
	}
	for i := range res.Segments {
		s := &res.Segments[i]
		if i > stop || (s.Bag == nil && !s.Skipped) {
			*s = SegmentResult{Segment: s.Segment, Skipped: true}
			emit(opts.Progress, Event{Segment: i, Label: s.Segment.Name(), Stage: StageParse, Status: StatusSkipped})
			continue
		}
		res.Bag.Merge(s.Bag)
	}
}
