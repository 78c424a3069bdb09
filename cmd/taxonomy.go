package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/procureml/poclass/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List the category taxonomy",
	RunE:  runTaxonomy,
}

func init() {
	taxonomyCmd.Flags().String("search", "", "filter rows by L1/L2/L3 keywords")
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")

	table := taxonomy.Load()
	rows := table.Search(search)
	if len(rows) == 0 {
		fmt.Println("No taxonomy entries match.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "L1\tL2\tL3")
	for _, e := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.L1, e.L2, e.L3)
	}
	return w.Flush()
}
