package dump

import (
	"fmt"

	"github.com/ValentinKolb/vgraph/cmd/util"
	"github.com/ValentinKolb/vgraph/lib/convert"
	"github.com/ValentinKolb/vgraph/lib/env"
	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// DumpCmd loads a value graph file and prints it
	DumpCmd = &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the value stored in a value graph file",
		Long: `Load a value graph file and print the value it stores.

Commands stored in the file are resolved against the builtin environment.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}
)

func init() {
	key := "format"
	DumpCmd.Flags().String(key, "text", util.WrapString("output format (text, json, yaml)"))
}

func run(cmd *cobra.Command, args []string) error {
	store, err := util.GetFileStore()
	if err != nil {
		return err
	}

	v, err := store.DeserializeFrom(args[0], env.Default())
	if err != nil {
		return err
	}

	out, err := Encode(v, viper.GetString("format"))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// Encode renders v in the given output format, always ending with a newline
func Encode(v value.Value, format string) ([]byte, error) {
	switch format {
	case "text":
		return []byte(v.String() + "\n"), nil
	case "json":
		out, err := convert.ToJSONIndent(v, "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		return convert.ToYAML(v)
	default:
		return nil, fmt.Errorf("invalid output format %s (expected one of: text, json, yaml)", format)
	}
}
