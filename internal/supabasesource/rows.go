package supabasesource

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/specialistvlad/elevendx/internal/config"
)

type nodeRow struct {
	ID       string      `json:"id"`
	States   []string    `json:"states"`
	Role     string      `json:"role"`
	Category *string     `json:"category"`
	Baseline *float64    `json:"baseline"`
	Parents  []string    `json:"parents"`
	CPT      [][]float64 `json:"cpt"`
	Label    *string     `json:"label"`
	Question *string     `json:"question"`
	Keywords []string    `json:"keywords"`
	Position *int        `json:"position"`
}

type edgeRow struct {
	Parent string `json:"parent_id"`
	Child  string `json:"child_id"`
}

func decodeNodes(data []byte) ([]*config.NodeDef, error) {
	var rows []nodeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s rows: %w", nodesTable, err)
	}
	slices.SortStableFunc(rows, func(a, b nodeRow) int {
		switch {
		case a.Position == nil && b.Position == nil:
			return 0
		case a.Position == nil:
			return 1
		case b.Position == nil:
			return -1
		}
		return *a.Position - *b.Position
	})

	defs := make([]*config.NodeDef, 0, len(rows))
	for _, r := range rows {
		defs = append(defs, &config.NodeDef{
			ID:       r.ID,
			States:   r.States,
			Role:     r.Role,
			Category: str(r.Category),
			Baseline: r.Baseline,
			Parents:  r.Parents,
			CPT:      r.CPT,
			Label:    str(r.Label),
			Question: str(r.Question),
			Keywords: r.Keywords,
		})
	}
	return defs, nil
}

func decodeEdges(data []byte) ([]*config.EdgeDef, error) {
	var rows []edgeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s rows: %w", edgesTable, err)
	}
	defs := make([]*config.EdgeDef, 0, len(rows))
	for _, r := range rows {
		defs = append(defs, &config.EdgeDef{Parent: r.Parent, Child: r.Child})
	}
	return defs, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
