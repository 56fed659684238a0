package hcl_adapter

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/specialistvlad/elevendx/internal/config"
)

//go:embed networks/*.hcl
var embedded embed.FS

// EmbeddedNames lists the networks compiled into the binary.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(embedded, "networks")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".hcl"))
	}
	slices.Sort(names)
	return names
}

// Embedded returns a Source for a network compiled into the binary.
func Embedded(name string) config.Source {
	return config.SourceFunc(func(ctx context.Context) (*config.Network, error) {
		file := path.Join("networks", name+".hcl")
		src, err := embedded.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unknown embedded network %q (have %v)", name, EmbeddedNames())
		}
		return ParseBytes(ctx, file, src)
	})
}
