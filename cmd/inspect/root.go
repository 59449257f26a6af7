package inspect

import (
	"fmt"
	"io"
	"sort"

	"github.com/ValentinKolb/vgraph/cmd/util"
	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// InspectCmd prints the arena structure of a value graph file
	InspectCmd = &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the arena structure and statistics of a value graph file",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
)

func init() {
	key := "elements"
	InspectCmd.Flags().Bool(key, false, util.WrapString("list every element of the arena"))
}

func run(cmd *cobra.Command, args []string) error {
	store, err := util.GetFileStore()
	if err != nil {
		return err
	}

	doc, err := store.ReadDocument(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	PrintStats(w, doc)
	if viper.GetBool("elements") {
		fmt.Fprintln(w)
		PrintElements(w, doc)
	}
	return nil
}

// PrintStats writes a summary of the document
func PrintStats(w io.Writer, doc *arena.Document) {
	stats := arena.ComputeStats(doc)

	fmt.Fprintf(w, "%-20s%d\n", "root", doc.Root)
	fmt.Fprintf(w, "%-20s%d\n", "elements", stats.Elements)
	fmt.Fprintf(w, "%-20s%d\n", "shared containers", stats.Shared)
	fmt.Fprintf(w, "%-20smin %.0f, max %.0f, mean %.2f, total %.0f\n", "payload bytes",
		stats.Payload.Min, stats.Payload.Max, stats.Payload.Mean, stats.Payload.Sum)
	fmt.Fprintf(w, "%-20smin %.0f, max %.0f, mean %.2f\n", "children",
		stats.FanOut.Min, stats.FanOut.Max, stats.FanOut.Mean)

	kinds := make([]arena.ElementKind, 0, len(stats.Kinds))
	for k := range stats.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-18s%d\n", k, stats.Kinds[k])
	}
}

// PrintElements writes one line per element
func PrintElements(w io.Writer, doc *arena.Document) {
	for i, e := range doc.Elements {
		if e.Kind.HasChildren() {
			fmt.Fprintf(w, "%6d  %-10s children %v\n", i, e.Kind, e.Children)
		} else {
			fmt.Fprintf(w, "%6d  %-10s payload %d bytes\n", i, e.Kind, len(e.Payload))
		}
	}
}
