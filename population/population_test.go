package population

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/dpx/problem"
	"github.com/crillab/dpx/recomb"
)

type countingObserver struct {
	mu     sync.Mutex
	nbOK   int
	nbFail int
}

func (o *countingObserver) Observe(_ recomb.Result, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.nbFail++
	} else {
		o.nbOK++
	}
}

func TestRun(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	inst, err := problem.NewNK(20, 3, 30, rng)
	require.NoError(t, err)
	pairs := RandomPairs(rng, 30, 25)
	e := recomb.New(inst)
	obs := &countingObserver{}
	r := Runner{Engine: e, Workers: 4, Observer: obs}
	outcomes, err := r.Run(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(pairs))
	assert.Equal(t, len(pairs), obs.nbOK)
	assert.Equal(t, 0, obs.nbFail)
	for i, out := range outcomes {
		assert.Equal(t, i, out.Pair)
		exp, err := e.Recombine(pairs[i].P1, pairs[i].P2)
		require.NoError(t, err)
		assert.Equal(t, exp, out.Result, "pair %d", i)
	}
}

func TestRunError(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	inst, err := problem.NewNK(5, 2, 8, rng)
	require.NoError(t, err)
	pairs := RandomPairs(rng, 8, 6)
	pairs[3].P2 = pairs[3].P2[:7]
	r := Runner{Engine: recomb.New(inst), Workers: 2}
	outcomes, err := r.Run(context.Background(), pairs)
	assert.Nil(t, outcomes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, recomb.ErrInvalidInput))
	assert.Contains(t, err.Error(), "pair 3")
}

func TestRunCanceled(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	inst, err := problem.NewNK(5, 2, 8, rng)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Runner{Engine: recomb.New(inst)}
	_, err = r.Run(ctx, RandomPairs(rng, 8, 3))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRandomPairs(t *testing.T) {
	a := RandomPairs(rand.New(rand.NewSource(1)), 10, 3)
	b := RandomPairs(rand.New(rand.NewSource(1)), 10, 3)
	assert.Equal(t, a, b)
	require.Len(t, a, 3)
	for _, p := range a {
		assert.Len(t, p.P1, 10)
		assert.Len(t, p.P2, 10)
	}
}
