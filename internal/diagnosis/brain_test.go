package diagnosis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/evidence"
	"github.com/specialistvlad/elevendx/internal/hcl_adapter"
	"github.com/specialistvlad/elevendx/internal/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respiratory(t *testing.T) *config.Network {
	t.Helper()
	network, err := hcl_adapter.Embedded("respiratory").Load(context.Background())
	require.NoError(t, err)
	return network
}

func newBrain(t *testing.T, opts Options) *Brain {
	t.Helper()
	b, err := NewBrain(context.Background(), respiratory(t), opts)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestAssess(t *testing.T) {
	b := newBrain(t, DefaultOptions())
	ctx := context.Background()

	t.Run("no evidence", func(t *testing.T) {
		a, err := b.Assess(ctx, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"pneumonia", "cancer"}, b.Targets())
		assert.Len(t, a.Percentages, 2)
		assert.InDelta(t, 5.2, a.Percentages["cancer"], 3)
		assert.InDelta(t, 5, a.Percentages["pneumonia"], 3)
		assert.False(t, a.Done)
		assert.Contains(t, []string{"smoking", "cough", "fever", "xray"}, a.NextQuestion)
	})

	t.Run("smoker", func(t *testing.T) {
		a, err := b.Infer(ctx, map[string]string{"smoking": "yes"})
		require.NoError(t, err)
		assert.InDelta(t, 15, a.Percentages["cancer"], 3)
		assert.NotEqual(t, "smoking", a.NextQuestion)
	})

	t.Run("everything answered", func(t *testing.T) {
		next, ok, err := b.NextQuestion(ctx, map[string]string{
			"smoking": "no", "cough": "no", "fever": "no", "xray": "normal",
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, next)
	})

	t.Run("invalid evidence", func(t *testing.T) {
		_, err := b.Assess(ctx, map[string]string{"xray": "yes"})
		assert.ErrorIs(t, err, evidence.ErrInvalidEvidence)
	})
}

func TestNextQuestionNeverRepeats(t *testing.T) {
	b := newBrain(t, DefaultOptions())
	ctx := context.Background()
	answers := map[string]string{}
	asked := map[string]bool{}

	for i := 0; i < 10; i++ {
		next, ok, err := b.NextQuestion(ctx, answers)
		require.NoError(t, err)
		if !ok {
			break
		}
		require.False(t, asked[next], "asked %s twice", next)
		require.NotContains(t, b.Targets(), next)
		asked[next] = true
		n, _ := b.Graph().Node(next)
		answers[next] = n.NegativeState()
	}
	assert.Len(t, asked, 4)
}

func TestPosteriorCache(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		b := newBrain(t, DefaultOptions())
		first, err := b.Assess(ctx, map[string]string{"cough": "yes"})
		require.NoError(t, err)
		assert.False(t, first.Cached)

		second, err := b.Assess(ctx, map[string]string{"cough": "yes"})
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.RunID, second.RunID)
		assert.Equal(t, first.Percentages, second.Percentages)

		hits, misses := b.CacheStats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Cache.Enabled = false
		b := newBrain(t, opts)
		first, err := b.Assess(ctx, nil)
		require.NoError(t, err)
		second, err := b.Assess(ctx, nil)
		require.NoError(t, err)
		assert.False(t, second.Cached)
		assert.NotEqual(t, first.RunID, second.RunID)
	})
}

func TestCacheRunsOncePerKey(t *testing.T) {
	c, err := newPosteriorCache(CacheOptions{Enabled: true, MaxEntries: 16})
	require.NoError(t, err)
	defer c.close()

	g := newBrain(t, DefaultOptions()).Graph()
	ev, err := evidence.FromMap(g, map[string]string{"fever": "yes"})
	require.NoError(t, err)

	runs := 0
	run := func(context.Context) (*inference.Result, error) {
		runs++
		return &inference.Result{RunID: "fixed"}, nil
	}
	for i := 0; i < 3; i++ {
		res, _, err := c.get(context.Background(), ev, run)
		require.NoError(t, err)
		assert.Equal(t, "fixed", res.RunID)
	}
	assert.Equal(t, 1, runs)
}

func TestCacheSharedRunOutlivesCancelledCaller(t *testing.T) {
	c, err := newPosteriorCache(CacheOptions{Enabled: true, MaxEntries: 16, TTL: time.Minute})
	require.NoError(t, err)
	defer c.close()

	g := newBrain(t, DefaultOptions()).Graph()
	ev, err := evidence.FromMap(g, map[string]string{"cough": "yes"})
	require.NoError(t, err)

	var runs atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	run := func(ctx context.Context) (*inference.Result, error) {
		runs.Add(1)
		started <- struct{}{}
		select {
		case <-release:
			return &inference.Result{RunID: "shared"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	type outcome struct {
		res *inference.Result
		hit bool
		err error
	}
	call := func(ctx context.Context) <-chan outcome {
		out := make(chan outcome, 1)
		go func() {
			res, hit, err := c.get(ctx, ev, run)
			out <- outcome{res, hit, err}
		}()
		return out
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	first := call(firstCtx)
	<-started
	second := call(context.Background())
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		f, ok := c.flights[ev.Key()]
		return ok && f.waiters == 2
	}, 5*time.Second, time.Millisecond)

	cancelFirst()
	got := <-first
	assert.ErrorIs(t, got.err, context.Canceled)
	assert.Nil(t, got.res)

	close(release)
	got = <-second
	require.NoError(t, got.err)
	assert.Equal(t, "shared", got.res.RunID)
	assert.False(t, got.hit, "joining a run is not a cache hit")
	assert.Equal(t, int32(1), runs.Load())

	res, hit, err := c.get(context.Background(), ev, run)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "shared", res.RunID)
}

func TestCacheRunCancelledWhenEveryCallerLeaves(t *testing.T) {
	c, err := newPosteriorCache(CacheOptions{Enabled: true, MaxEntries: 16, TTL: time.Minute})
	require.NoError(t, err)
	defer c.close()

	g := newBrain(t, DefaultOptions()).Graph()
	ev, err := evidence.FromMap(g, map[string]string{"fever": "no"})
	require.NoError(t, err)

	started := make(chan struct{})
	stopped := make(chan struct{})
	run := func(ctx context.Context) (*inference.Result, error) {
		close(started)
		<-ctx.Done()
		close(stopped)
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := c.get(ctx, ev, run)
		done <- err
	}()
	<-started
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("abandoned run kept going")
	}
	c.mu.Lock()
	assert.Empty(t, c.flights)
	c.mu.Unlock()
}

func TestAssessPaddedDefinitions(t *testing.T) {
	testCases := []struct {
		name    string
		network *config.Network
	}{
		{
			name: "padded state",
			network: &config.Network{Nodes: []*config.NodeDef{
				{ID: "flu", States: []string{"yes ", "no"}, Role: "disease"},
				{ID: "fever", States: []string{"yes", "no"}, Parents: []string{"flu"}},
			}},
		},
		{
			name: "padded id with explicit table",
			network: &config.Network{Nodes: []*config.NodeDef{
				{ID: "flu ", States: []string{"yes", "no"}, Role: "disease", CPT: [][]float64{{0.1, 0.9}}},
				{ID: "fever", States: []string{"yes", "no"}, Parents: []string{" flu"}, CPT: [][]float64{{0.8, 0.2}, {0.1, 0.9}}},
			}},
		},
		{
			name: "padded edge record",
			network: &config.Network{
				Nodes: []*config.NodeDef{
					{ID: "flu", States: []string{"yes", "no"}, Role: "disease"},
					{ID: "fever", States: []string{"yes", "no"}},
				},
				Edges: []*config.EdgeDef{{Parent: "flu\t", Child: " fever"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Inference.Trials = 500
			b, err := NewBrain(context.Background(), tc.network, opts)
			require.NoError(t, err)
			defer b.Close()

			a, err := b.Assess(context.Background(), map[string]string{"fever": "yes"})
			require.NoError(t, err)
			assert.Contains(t, a.Percentages, "flu")

			_, err = b.Assess(context.Background(), map[string]string{"flu": "yes"})
			require.NoError(t, err)

			def, ok := b.Network().Node("flu")
			require.True(t, ok)
			assert.Equal(t, []string{"yes", "no"}, def.States)
		})
	}
}

func TestNewBrainErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewBrain(ctx, nil, DefaultOptions())
	assert.Error(t, err)

	bad := respiratory(t)
	cough, _ := bad.Node("cough")
	cough.CPT = cough.CPT[:2]
	_, err = NewBrain(ctx, bad, DefaultOptions())
	assert.ErrorContains(t, err, "building probability tables")

	opts := DefaultOptions()
	opts.Inference.Trials = 0
	_, err = NewBrain(ctx, respiratory(t), opts)
	assert.ErrorContains(t, err, "trials must be positive")
}

func TestNetworkDefaultBaselineFeedsPolicy(t *testing.T) {
	baseline := 0.4
	network := &config.Network{
		DefaultBaseline: &baseline,
		Nodes: []*config.NodeDef{
			{ID: "flu", States: []string{"yes", "no"}, Role: "disease"},
			{ID: "fever", States: []string{"yes", "no"}, Parents: []string{"flu"}},
		},
	}
	b, err := NewBrain(context.Background(), network, DefaultOptions())
	require.NoError(t, err)
	defer b.Close()

	tbl, ok := b.Store().Table("flu")
	require.True(t, ok)
	assert.Equal(t, [][]float64{{0.4, 0.6}}, tbl.Rows())
}

func TestAssessmentRanked(t *testing.T) {
	a := &Assessment{Percentages: map[string]float64{"flu": 10, "covid": 30, "cancer": 10}}
	assert.Equal(t, []Finding{
		{ID: "covid", Percent: 30},
		{ID: "cancer", Percent: 10},
		{ID: "flu", Percent: 10},
	}, a.Ranked())
}
