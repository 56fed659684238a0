package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/elevendx/internal/intake"
	"github.com/specialistvlad/elevendx/internal/session"
)

var quitWords = []string{"quit", "exit", "stop"}

func interviewCmd(opts *globalOptions) *cobra.Command {
	var rawEvidence []string

	c := &cobra.Command{
		Use:   "interview",
		Short: "Ask questions interactively until nothing useful is left to ask",
		Long: `interview reads answers line by line from stdin. Reply with a state name,
yes/no, or free text mentioning symptoms. Type 'quit' to stop early.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initial, err := parseEvidence(rawEvidence)
			if err != nil {
				return err
			}
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			mgr := a.Sessions()
			turn, err := mgr.Start(ctx, initial)
			if err != nil {
				return evidenceError(err)
			}
			defer mgr.End(ctx, turn.SessionID)

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			for turn.Phase != session.Finished {
				// A watched reload may swap the model between turns.
				catalog, err := mgr.Catalog()
				if err != nil {
					return err
				}
				printTurn(out, catalog, turn)
				fmt.Fprint(out, "> ")
				if !in.Scan() {
					fmt.Fprintln(out)
					break
				}
				text := strings.TrimSpace(in.Text())
				if isQuit(text) {
					break
				}
				turn, err = answer(cmd, mgr, catalog, turn, text)
				if err != nil {
					return err
				}
			}
			if err := in.Err(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			if turn.Phase == session.Finished {
				fmt.Fprintln(out, "Thank you, that is everything I need.")
			}
			fmt.Fprintf(out, "Evidence: %s\n", formatEvidence(turn.Assessment.Evidence))
			catalog, err := mgr.Catalog()
			if err != nil {
				return err
			}
			printFindings(out, catalog, turn.Assessment)
			return nil
		},
	}
	evidenceFlag(c, &rawEvidence)
	return c
}

// answer records text as the reply to the pending question. Replies that are
// not a state name or yes/no are scanned for symptom keywords instead.
func answer(cmd *cobra.Command, mgr *session.Manager, catalog *intake.Catalog, turn *session.Turn, text string) (*session.Turn, error) {
	next, err := mgr.Answer(cmd.Context(), turn.SessionID, text)
	if err != nil || !next.Reprompt {
		return next, err
	}
	if found := catalog.Scan(text); len(found) > 0 {
		return mgr.Observe(cmd.Context(), turn.SessionID, found)
	}
	return next, nil
}

func printTurn(w io.Writer, catalog *intake.Catalog, turn *session.Turn) {
	if turn.Reprompt {
		entry, _ := catalog.Entry(turn.QuestionID)
		fmt.Fprintf(w, "Sorry, I didn't catch that. Please answer with one of: %s.\n", strings.Join(entry.States, ", "))
	}
	fmt.Fprintln(w, turn.Question)
}

func isQuit(text string) bool {
	for _, w := range quitWords {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}
