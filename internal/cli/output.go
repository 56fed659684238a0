package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/elevendx/internal/diagnosis"
	"github.com/specialistvlad/elevendx/internal/intake"
	"github.com/specialistvlad/elevendx/internal/question"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatEvidence(m map[string]string) string {
	if len(m) == 0 {
		return "(none)"
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + m[id]
	}
	return strings.Join(parts, ", ")
}

func printFindings(w io.Writer, catalog *intake.Catalog, a *diagnosis.Assessment) {
	if a.Degenerate {
		fmt.Fprintln(w, "Warning: the evidence is impossible under this network; no estimate is available.")
		if a.Diagnostic != "" {
			fmt.Fprintf(w, "  (%s)\n", a.Diagnostic)
		}
		return
	}
	fmt.Fprintf(w, "Findings (%d trials):\n", a.Trials)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range a.Ranked() {
		fmt.Fprintf(tw, "  %s\t%5.1f%%\n", catalog.Label(f.ID), f.Percent)
	}
	tw.Flush()
}

func printAssessment(w io.Writer, catalog *intake.Catalog, a *diagnosis.Assessment) {
	fmt.Fprintf(w, "Evidence: %s\n", formatEvidence(a.Evidence))
	printFindings(w, catalog, a)
	if a.Done {
		fmt.Fprintln(w, "No further questions.")
		return
	}
	fmt.Fprintf(w, "Next question [%s]: %s\n", a.NextQuestion, catalog.Question(a.NextQuestion))
}

func printRanking(w io.Writer, catalog *intake.Catalog, ranking []question.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tP(POSITIVE)\tENTROPY\tQUESTION")
	for _, c := range ranking {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%s\n", c.ID, c.Probability, c.Entropy, catalog.Question(c.ID))
	}
	tw.Flush()
}
