package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/udisondev/anvilmerge/internal/data"
	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

var errExpectationFailed = errors.New("some cases did not match their expected cost")

func newEvalCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "eval <cases.yaml>",
		Short: "Evaluate merge cases from a file and check expected costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := data.LoadCases(args[0])
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			policy, err := anvil.PolicyByName(a.cfg.Policy)
			if err != nil {
				return err
			}

			reqs := make([]anvil.Request, len(cases))
			for i, c := range cases {
				reqs[i] = c.Request
			}
			results, err := engine.MergeAll(cmd.Context(), reqs, workers)
			if err != nil {
				return err
			}

			if failed := printEval(cmd.OutOrStdout(), cases, results, policy); failed > 0 {
				return fmt.Errorf("%d of %d: %w", failed, len(cases), errExpectationFailed)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "merges evaluated in parallel")
	return cmd
}

// printEval writes one line per case and returns how many cases missed
// their expected cost.
func printEval(w io.Writer, cases []data.Case, results []anvil.Result, policy anvil.Policy) int {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	failed := 0
	for i, c := range cases {
		res := results[i]

		status := green.Sprint("ok  ")
		if c.ExpectCost != nil && *c.ExpectCost != res.TotalCost {
			status = red.Sprintf("FAIL (want %d)", *c.ExpectCost)
			failed++
		}

		decision := "allowed"
		switch {
		case !res.Allowed:
			decision = "nothing to merge"
		case !anvil.Decide(policy, c.Request, res):
			decision = red.Sprint("denied by policy")
		case res.HasConflicts:
			decision = yellow.Sprint("allowed with conflicts")
		}

		fmt.Fprintf(w, "%s %-28s cost=%-3d penalty=%-4d %s  %s\n",
			status, c.Name, res.TotalCost, res.Penalty, decision, formatProfile(res.Merged))
	}

	if failed == 0 {
		green.Fprintf(w, "\n%d cases passed\n", len(cases))
	} else {
		red.Fprintf(w, "\n%d of %d cases failed\n", failed, len(cases))
	}
	return failed
}

func formatProfile(p enchant.Profile) string {
	if len(p) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(p))
	for _, e := range p.Keys() {
		parts = append(parts, fmt.Sprintf("%s %d", e, p[e]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
