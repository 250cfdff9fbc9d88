package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aretw0/notemill/internal/iorw"
	"github.com/aretw0/notemill/pkg/params"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect INPUT",
	Short: "List the parameters a notebook declares",
	Long: `Reads INPUT and prints the names assigned in its parameters cell.

The reference forms accepted by execute work here too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := iorw.New()
		nb, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if params.FindParametersCell(nb) == nil {
			fmt.Fprintf(os.Stderr, "no cell tagged %q in %s\n", "parameters", args[0])
			return nil
		}

		names := params.InferParameterNames(nb)
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Name", "Declared In")
		for _, name := range names {
			table.Append(name, args[0])
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
