package dag

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesNo(id, role string, parents ...string) *config.NodeDef {
	return &config.NodeDef{ID: id, States: []string{"yes", "no"}, Role: role, Parents: parents}
}

func respiratory() ([]*config.NodeDef, []*config.EdgeDef) {
	nodes := []*config.NodeDef{
		yesNo("smoking", "risk"),
		yesNo("pneumonia", "disease"),
		yesNo("cancer", "disease"),
		yesNo("fever", "symptom"),
		{ID: "xray", States: []string{"abnormal", "normal"}, Role: "symptom"},
		yesNo("cough", "symptom"),
	}
	edges := []*config.EdgeDef{
		{Parent: "smoking", Child: "cancer"},
		{Parent: "pneumonia", Child: "fever"},
		{Parent: "cancer", Child: "xray"},
		{Parent: "cancer", Child: "cough"},
		{Parent: "pneumonia", Child: "cough"},
	}
	return nodes, edges
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("respiratory network", func(t *testing.T) {
		nodes, edges := respiratory()
		g, err := Build(ctx, nodes, edges)
		require.NoError(t, err)

		assert.Equal(t, 6, g.Len())
		parents, err := g.Parents("cough")
		require.NoError(t, err)
		assert.Equal(t, []string{"cancer", "pneumonia"}, parents)

		children, err := g.Children("cancer")
		require.NoError(t, err)
		assert.Equal(t, []string{"xray", "cough"}, children)

		assert.Equal(t, []string{"pneumonia", "cancer"}, g.Targets())
		assert.Equal(t, []string{"smoking", "pneumonia", "cancer", "fever", "xray", "cough"}, g.TopologicalOrder())
	})

	t.Run("parents list precedes edge records", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("a", ""), yesNo("b", ""), yesNo("c", "", "b")}
		edges := []*config.EdgeDef{{Parent: "a", Child: "c"}, {Parent: "b", Child: "c"}}
		g, err := Build(ctx, nodes, edges)
		require.NoError(t, err)
		parents, _ := g.Parents("c")
		assert.Equal(t, []string{"b", "a"}, parents)
	})

	t.Run("topological order respects edges declared backwards", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("child", ""), yesNo("mid", ""), yesNo("root", "")}
		edges := []*config.EdgeDef{{Parent: "mid", Child: "child"}, {Parent: "root", Child: "mid"}}
		g, err := Build(ctx, nodes, edges)
		require.NoError(t, err)
		assert.Equal(t, []string{"root", "mid", "child"}, g.TopologicalOrder())
	})

	t.Run("empty definition", func(t *testing.T) {
		_, err := Build(ctx, nil, nil)
		assert.ErrorIs(t, err, ErrEmptyGraph)
	})

	t.Run("unknown edge endpoint", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("a", "")}
		_, err := Build(ctx, nodes, []*config.EdgeDef{{Parent: "a", Child: "ghost"}})
		require.ErrorIs(t, err, ErrUnknownNodeReference)
		var unknown *UnknownNodeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "ghost", unknown.Missing)
	})

	t.Run("self edge is a cycle", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("a", "")}
		_, err := Build(ctx, nodes, []*config.EdgeDef{{Parent: "a", Child: "a"}})
		require.ErrorIs(t, err, ErrCyclicGraph)
	})

	t.Run("three node cycle reports its path", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("a", ""), yesNo("b", ""), yesNo("c", "")}
		edges := []*config.EdgeDef{
			{Parent: "a", Child: "b"},
			{Parent: "b", Child: "c"},
			{Parent: "c", Child: "a"},
		}
		_, err := Build(ctx, nodes, edges)
		require.ErrorIs(t, err, ErrCyclicGraph)
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "b", "c", "a"}, cycle.Path)
		assert.ErrorContains(t, err, "a -> b -> c -> a")
	})

	t.Run("duplicate edges collapse", func(t *testing.T) {
		nodes := []*config.NodeDef{yesNo("a", ""), yesNo("b", "", "a")}
		g, err := Build(ctx, nodes, []*config.EdgeDef{{Parent: "a", Child: "b"}})
		require.NoError(t, err)
		parents, _ := g.Parents("b")
		assert.Equal(t, []string{"a"}, parents)
	})
}

func TestBuildRejectsBadDefinitions(t *testing.T) {
	bad := func(f float64) *float64 { return &f }
	testCases := []struct {
		name string
		node *config.NodeDef
		want string
	}{
		{"invalid id", &config.NodeDef{ID: "Bad Id", States: []string{"yes", "no"}}, "Bad Id"},
		{"single state", &config.NodeDef{ID: "a", States: []string{"yes"}}, "at least two states"},
		{"repeated state", &config.NodeDef{ID: "a", States: []string{"yes", "yes"}}, "listed twice"},
		{"unknown role", &config.NodeDef{ID: "a", States: []string{"yes", "no"}, Role: "organ"}, "unknown role"},
		{"baseline out of range", &config.NodeDef{ID: "a", States: []string{"yes", "no"}, Baseline: bad(1.5)}, "outside [0,1]"},
		{"nil node", nil, "is nil"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(context.Background(), []*config.NodeDef{tc.node}, nil)
			require.ErrorIs(t, err, ErrInvalidDefinition)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		_, err := Build(context.Background(), []*config.NodeDef{yesNo("a", ""), yesNo("a", "")}, nil)
		require.ErrorIs(t, err, ErrInvalidDefinition)
		assert.ErrorContains(t, err, "more than once")
	})
}
