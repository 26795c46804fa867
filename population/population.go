// Package population recombines many pairs of solutions of a same instance concurrently.
package population

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/crillab/dpx/recomb"
)

var tracer = otel.Tracer("dpx.population")

// A Pair is a couple of parents to recombine.
type Pair struct {
	P1, P2 []bool
}

// An Outcome is the result of the recombination of a pair.
type Outcome struct {
	Pair    int // Index of the pair in the input.
	Result  recomb.Result
	Elapsed time.Duration
}

// An Observer is told about every recombination a Runner makes.
// It must be safe for concurrent use.
type Observer interface {
	Observe(res recomb.Result, elapsed time.Duration, err error)
}

// A Runner recombines pairs with a bounded number of goroutines.
type Runner struct {
	Engine   *recomb.Engine
	Workers  int                // Max number of concurrent recombinations. Values <= 0 mean 1.
	Logger   logrus.FieldLogger // Where progress is logged. nil means the engine's logger.
	Observer Observer           // Optional.
}

// Run recombines all pairs and returns their outcomes, in the order of pairs.
// The first failing recombination cancels the remaining ones and its error is returned.
func (r *Runner) Run(ctx context.Context, pairs []Pair) ([]Outcome, error) {
	runID := uuid.NewString()
	logger := r.Logger
	if logger == nil {
		logger = r.Engine.Logger
	}
	logger = logger.WithField("run_id", runID)
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	ctx, span := tracer.Start(ctx, "population.Run",
		trace.WithAttributes(
			attribute.String("population.run_id", runID),
			attribute.Int("population.pairs", len(pairs)),
			attribute.Int("population.workers", workers),
		),
	)
	defer span.End()

	start := time.Now()
	logger.WithFields(logrus.Fields{"pairs": len(pairs), "workers": workers}).Info("starting recombinations")
	outcomes := make([]Outcome, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pairs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.recombine(ctx, i, pairs[i])
			if err != nil {
				return errors.Wrapf(err, "pair %d", i)
			}
			outcomes[i] = out
			logger.WithFields(logrus.Fields{
				"pair":      i,
				"value":     out.Result.Value,
				"treewidth": out.Result.Stats.Treewidth,
				"elapsed":   out.Elapsed,
			}).Debug("pair recombined")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithError(err).Error("recombinations failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	logger.WithField("elapsed", time.Since(start)).Info("recombinations done")
	return outcomes, nil
}

func (r *Runner) recombine(ctx context.Context, i int, p Pair) (Outcome, error) {
	_, span := tracer.Start(ctx, "population.Recombine",
		trace.WithAttributes(attribute.Int("population.pair", i)),
	)
	defer span.End()

	start := time.Now()
	res, err := r.Engine.Recombine(p.P1, p.P2)
	elapsed := time.Since(start)
	if r.Observer != nil {
		r.Observer.Observe(res, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}
	span.SetAttributes(
		attribute.Int("recomb.diff_vars", res.Stats.NbDiffVars),
		attribute.Int("recomb.treewidth", res.Stats.Treewidth),
		attribute.Float64("recomb.value", res.Value),
	)
	return Outcome{Pair: i, Result: res, Elapsed: elapsed}, nil
}

// RandomSolution returns a uniformly random solution over n vars.
func RandomSolution(rng *rand.Rand, n int) []bool {
	x := make([]bool, n)
	for i := range x {
		x[i] = rng.Intn(2) == 1
	}
	return x
}

// RandomPairs returns count pairs of random solutions over n vars.
func RandomPairs(rng *rand.Rand, n, count int) []Pair {
	pairs := make([]Pair, count)
	for i := range pairs {
		pairs[i] = Pair{P1: RandomSolution(rng, n), P2: RandomSolution(rng, n)}
	}
	return pairs
}
