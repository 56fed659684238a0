package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/fsutil"
)

// Loader reads a network from HCL files and directories. It implements
// config.Source.
type Loader struct {
	paths []string
}

// NewLoader returns a Loader over the given files or directories.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: paths}
}

// Paths returns the configured locations.
func (l *Loader) Paths() []string { return l.paths }

// Load parses every .hcl file under the configured paths into one network.
func (l *Loader) Load(ctx context.Context) (*config.Network, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(l.paths))

	files, err := fsutil.FindFiles(l.paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", l.paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	d := newDecoder()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := d.decode(ctx, file, hclFile); err != nil {
			return nil, err
		}
	}
	return d.finish(ctx)
}

// ParseBytes decodes a network held in memory. filename only shows up in
// diagnostics.
func ParseBytes(ctx context.Context, filename string, src []byte) (*config.Network, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	d := newDecoder()
	if err := d.decode(ctx, filename, hclFile); err != nil {
		return nil, err
	}
	return d.finish(ctx)
}

// decoder accumulates blocks across files.
type decoder struct {
	network *config.Network
	source  string
}

func newDecoder() *decoder {
	return &decoder{network: &config.Network{}}
}

func (d *decoder) decode(ctx context.Context, filename string, f *hcl.File) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	for _, nb := range root.Networks {
		if d.network.Name != "" && d.network.Name != nb.Name {
			return fmt.Errorf("file %s declares network '%s' but '%s' was already declared in %s", filename, nb.Name, d.network.Name, d.source)
		}
		d.network.Name = nb.Name
		d.source = filename
		if nb.DefaultBaseline != nil {
			v := *nb.DefaultBaseline
			d.network.DefaultBaseline = &v
		}
	}
	for _, nb := range root.Nodes {
		def, err := translateNode(ctx, nb)
		if err != nil {
			return err
		}
		d.network.Nodes = append(d.network.Nodes, def)
	}
	for _, eb := range root.Edges {
		d.network.Edges = append(d.network.Edges, translateEdge(eb))
	}
	return nil
}

func (d *decoder) finish(ctx context.Context) (*config.Network, error) {
	ctxlog.FromContext(ctx).Debug("HCL loading complete.",
		"network", d.network.Name,
		"nodes", len(d.network.Nodes),
		"edges", len(d.network.Edges),
	)
	return d.network, nil
}
