package cli

import (
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/elevendx/internal/diagnosis"
)

func scanCmd(opts *globalOptions) *cobra.Command {
	var rawEvidence []string
	var asJSON bool

	c := &cobra.Command{
		Use:   "scan FILE",
		Short: "Extract evidence from free text by keyword and estimate probabilities",
		Long: `scan reads FILE (or stdin when FILE is '-'), maps symptom keywords to
observations and runs inference. --evidence values override what the scan finds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseEvidence(rawEvidence)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			brain, err := a.Brain()
			if err != nil {
				return err
			}
			catalog, err := a.Sessions().Catalog()
			if err != nil {
				return err
			}

			found := catalog.Scan(string(text))
			obs := maps.Clone(found)
			maps.Copy(obs, overrides)

			assessment, err := brain.Assess(cmd.Context(), obs)
			if err != nil {
				return evidenceError(err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, scanResult{Detected: found, Assessment: assessment})
			}
			fmt.Fprintf(out, "Detected: %s\n", formatEvidence(found))
			printAssessment(out, catalog, assessment)
			return nil
		},
	}
	evidenceFlag(c, &rawEvidence)
	c.Flags().BoolVar(&asJSON, "json", false, "Print the detected evidence and assessment as JSON.")
	return c
}

type scanResult struct {
	Detected map[string]string `json:"detected"`
	*diagnosis.Assessment
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, usageError(err)
	}
	return b, nil
}
