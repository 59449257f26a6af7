package pack

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/vgraph/cmd/util"
	"github.com/ValentinKolb/vgraph/lib/convert"
	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// PackCmd converts a JSON or YAML document into a value graph file
	PackCmd = &cobra.Command{
		Use:   "pack [input] [output]",
		Short: "Convert a JSON or YAML document into a value graph file",
		Long: `Convert a JSON or YAML document into a value graph file.

Objects become structs, arrays become lists (or tables when all items are
objects with the same fields). Use "-" as input to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: run,
	}
)

func init() {
	key := "input-format"
	PackCmd.Flags().String(key, "auto", util.WrapString("format of the input (auto, json, yaml). auto uses the file extension and falls back to json"))
}

func run(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	store, err := util.GetFileStore()
	if err != nil {
		return err
	}

	data, err := util.ReadInput(store.Fs(), input)
	if err != nil {
		return err
	}

	v, err := Decode(data, InputFormat(input, viper.GetString("input-format")))
	if err != nil {
		return err
	}

	if err := store.SerializeTo(v, output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %s (%s) into %s\n", input, v.Type(), output)
	return nil
}

// InputFormat resolves the format of an input file. An explicit format wins,
// "auto" picks yaml for .yaml/.yml files and json otherwise.
func InputFormat(path, format string) string {
	format = strings.ToLower(format)
	if format != "" && format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode converts data in the given format into a value
func Decode(data []byte, format string) (value.Value, error) {
	switch format {
	case "json":
		return convert.FromJSON(data)
	case "yaml":
		return convert.FromYAML(data)
	default:
		return nil, fmt.Errorf("invalid input format %s (expected one of: auto, json, yaml)", format)
	}
}
