package intake

import (
	"regexp"
	"slices"
	"strings"

	"github.com/specialistvlad/elevendx/internal/config"
)

// FallbackQuestion is asked for nodes that carry no question text.
const FallbackQuestion = "Tell me more..."

// Entry is the presentation metadata of one node.
type Entry struct {
	ID       string
	Label    string
	Question string
	Category string
	Role     string
	States   []string
	Keywords []string
}

// Catalog maps node ids to their metadata.
type Catalog struct {
	entries  map[string]*Entry
	order    []string
	patterns map[string][]*regexp.Regexp
}

// NewCatalog collects the metadata of every node in network.
func NewCatalog(network *config.Network) *Catalog {
	c := &Catalog{
		entries:  make(map[string]*Entry),
		patterns: make(map[string][]*regexp.Regexp),
	}
	if network == nil {
		return c
	}
	for _, n := range network.Nodes {
		e := &Entry{
			ID:       n.ID,
			Label:    n.Label,
			Question: n.Question,
			Category: n.Category,
			Role:     n.Role,
			States:   slices.Clone(n.States),
			Keywords: slices.Clone(n.Keywords),
		}
		c.entries[n.ID] = e
		c.order = append(c.order, n.ID)
		for _, kw := range n.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			c.patterns[n.ID] = append(c.patterns[n.ID], regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	return c
}

// Entry returns the metadata of id.
func (c *Catalog) Entry(id string) (Entry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Question returns the prompt for id.
func (c *Catalog) Question(id string) string {
	if e, ok := c.entries[id]; ok && e.Question != "" {
		return e.Question
	}
	return FallbackQuestion
}

// Label returns a display name for id, the id itself when none is set.
func (c *Catalog) Label(id string) string {
	if e, ok := c.entries[id]; ok && e.Label != "" {
		return e.Label
	}
	return id
}

// Scan looks for node keywords in text and returns the matched nodes set to
// their positive (first) state. Matching is case-insensitive on word
// boundaries; negations are not understood.
func (c *Catalog) Scan(text string) map[string]string {
	lower := strings.ToLower(text)
	found := make(map[string]string)
	for _, id := range c.order {
		for _, re := range c.patterns[id] {
			if re.MatchString(lower) {
				found[id] = c.entries[id].States[0]
				break
			}
		}
	}
	return found
}
