package hcl_adapter

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	tableType = cty.List(cty.List(cty.Number))
	rowType   = cty.List(cty.Number)
)

// isExprDefined reports whether an optional attribute was actually written.
// gohcl fills omitted hcl.Expression fields with a zero-width placeholder, so
// a nil check alone is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func translateNode(ctx context.Context, b *nodeBlock) (*config.NodeDef, error) {
	def := &config.NodeDef{
		ID:       b.ID,
		States:   slices.Clone(b.States),
		Role:     deref(b.Role),
		Category: deref(b.Category),
		Parents:  slices.Clone(b.Parents),
		Label:    deref(b.Label),
		Question: deref(b.Question),
		Keywords: slices.Clone(b.Keywords),
	}
	if b.Baseline != nil {
		v := *b.Baseline
		def.Baseline = &v
	}
	rows, err := decodeTable(ctx, b.CPT)
	if err != nil {
		return nil, fmt.Errorf("node '%s' at %s: %w", b.ID, b.DefRange, err)
	}
	def.CPT = rows
	return def, nil
}

// decodeTable accepts either a list of rows or, for roots, a single flat row.
func decodeTable(ctx context.Context, expr hcl.Expression) ([][]float64, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating cpt: %w", diags)
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return nil, fmt.Errorf("cpt must be a known, non-null value")
	}

	if table, err := convert.Convert(val, tableType); err == nil {
		var rows [][]float64
		if err := gocty.FromCtyValue(table, &rows); err != nil {
			return nil, fmt.Errorf("decoding cpt: %w", err)
		}
		return rows, nil
	}
	row, err := convert.Convert(val, rowType)
	if err != nil {
		return nil, fmt.Errorf("cpt must be a list of number lists, got %s", val.Type().FriendlyName())
	}
	ctxlog.FromContext(ctx).Debug("Decoded flat cpt as a single row.", "range", expr.Range().String())
	var flat []float64
	if err := gocty.FromCtyValue(row, &flat); err != nil {
		return nil, fmt.Errorf("decoding cpt: %w", err)
	}
	return [][]float64{flat}, nil
}

func translateEdge(b *edgeBlock) *config.EdgeDef {
	return &config.EdgeDef{Parent: b.Parent, Child: b.Child}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
