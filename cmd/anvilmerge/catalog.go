package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

func newCatalogCmd(a *app) *cobra.Command {
	var conflictsOnly bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the loaded enchantment costs and conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), engine, conflictsOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&conflictsOnly, "conflicts-only", false, "list only enchantments that conflict with something")
	return cmd
}

func printCatalog(w io.Writer, engine *anvil.Engine, conflictsOnly bool) {
	rules, costs := engine.Rules(), engine.Costs()
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)

	fmt.Fprintf(w, "%-26s %-34s %4s %7s  %s\n", "NAME", "KEY", "COST", "REDUCED", "CONFLICTS")
	for _, e := range enchant.All() {
		others := rules.ConflictsOf(e)
		if conflictsOnly && len(others) == 0 {
			continue
		}

		names := make([]string, 0, len(others))
		for _, o := range others {
			names = append(names, o.String())
		}

		fmt.Fprintf(w, "%s %-34s %4d %7d  %s\n",
			cyan.Sprintf("%-26s", e),
			e.Key(),
			costs.UnitCost(e, false),
			costs.UnitCost(e, true),
			magenta.Sprint(strings.Join(names, ", ")))
	}
	fmt.Fprintf(w, "\n%d enchantments, %d conflict pairs\n", costs.Len(), rules.Pairs())
}
