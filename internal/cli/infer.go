package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func inferCmd(opts *globalOptions) *cobra.Command {
	var rawEvidence []string
	var asJSON bool

	c := &cobra.Command{
		Use:   "infer",
		Short: "Estimate disease probabilities for the given evidence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := parseEvidence(rawEvidence)
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
			assessment, err := brain.Assess(cmd.Context(), obs)
			if err != nil {
				return evidenceError(err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), assessment)
			}
			catalog, err := a.Sessions().Catalog()
			if err != nil {
				return err
			}
			printAssessment(cmd.OutOrStdout(), catalog, assessment)
			return nil
		},
	}
	evidenceFlag(c, &rawEvidence)
	c.Flags().BoolVar(&asJSON, "json", false, "Print the assessment as JSON.")
	return c
}

func nextCmd(opts *globalOptions) *cobra.Command {
	var rawEvidence []string
	var explain bool

	c := &cobra.Command{
		Use:   "next",
		Short: "Print the most informative question to ask next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := parseEvidence(rawEvidence)
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
			out := cmd.OutOrStdout()

			if explain {
				ranking, err := brain.Rank(cmd.Context(), obs)
				if err != nil {
					return evidenceError(err)
				}
				if len(ranking) == 0 {
					fmt.Fprintln(out, "No further questions.")
					return nil
				}
				printRanking(out, catalog, ranking)
				return nil
			}

			id, ok, err := brain.NextQuestion(cmd.Context(), obs)
			if err != nil {
				return evidenceError(err)
			}
			if !ok {
				fmt.Fprintln(out, "No further questions.")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\n", id, catalog.Question(id))
			return nil
		},
	}
	evidenceFlag(c, &rawEvidence)
	c.Flags().BoolVar(&explain, "explain", false, "List every candidate question with its entropy.")
	return c
}
