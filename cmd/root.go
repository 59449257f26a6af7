package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/vgraph/cmd/dump"
	"github.com/ValentinKolb/vgraph/cmd/inspect"
	"github.com/ValentinKolb/vgraph/cmd/pack"
	"github.com/ValentinKolb/vgraph/cmd/util"
	"github.com/ValentinKolb/vgraph/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (
	plog = logger.GetLogger("cli")

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "vgraph",
		Short: "value graph serialization tool",
		Long: fmt.Sprintf(`vgraph (v%s)

Packs JSON and YAML documents into value graph files, dumps value graph
files back into text, JSON or YAML, and inspects their arena structure.`, Version),
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vgraph",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vgraph v%s\n", Version)
		},
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), util.GetConfig().String())
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(pack.PackCmd)
	RootCmd.AddCommand(dump.DumpCmd)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "codec"
	RootCmd.PersistentFlags().String(key, util.CodecAuto, util.WrapString("arena codec to use (auto, proto, binary, json). auto detects the codec when reading and writes proto"))
	key = "data-dir"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("directory all file paths are resolved in (default: the filesystem as is)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("print serialization metrics in Prometheus format to stderr after the command"))
}

// setup binds the flags of the executed command and configures logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	conf := util.GetConfig()
	if err := common.ValidateLogLevel(conf.LogLevel); err != nil {
		return err
	}
	common.InitLoggers(conf.LogLevel)
	plog.Debugf("running %s with configuration:%s", cmd.CommandPath(), conf)
	return nil
}

// teardown writes the metrics if requested
func teardown(_ *cobra.Command, _ []string) error {
	if util.GetConfig().Metrics {
		metrics.WritePrometheus(os.Stderr, false)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
