package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a network file may contain.
type fileRoot struct {
	Networks []*networkBlock `hcl:"network,block"`
	Nodes    []*nodeBlock    `hcl:"node,block"`
	Edges    []*edgeBlock    `hcl:"edge,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type networkBlock struct {
	Name            string   `hcl:"name,label"`
	DefaultBaseline *float64 `hcl:"default_baseline,optional"`
	Description     *string  `hcl:"description,optional"`
}

type nodeBlock struct {
	ID       string         `hcl:"id,label"`
	States   []string       `hcl:"states"`
	Role     *string        `hcl:"role,optional"`
	Category *string        `hcl:"category,optional"`
	Baseline *float64       `hcl:"baseline,optional"`
	Parents  []string       `hcl:"parents,optional"`
	CPT      hcl.Expression `hcl:"cpt,optional"`
	Label    *string        `hcl:"label,optional"`
	Question *string        `hcl:"question,optional"`
	Keywords []string       `hcl:"keywords,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}

type edgeBlock struct {
	Parent string `hcl:"parent"`
	Child  string `hcl:"child"`
}
