package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ValentinKolb/vgraph/lib/arena"
	"github.com/ValentinKolb/vgraph/lib/common"
	"github.com/ValentinKolb/vgraph/lib/serialization"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// CodecAuto selects the codec by the content of the file when reading
	// (writing then uses the default codec)
	CodecAuto = "auto"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("vgraph")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the shared configuration from viper
func GetConfig() *common.Config {
	return &common.Config{
		Codec:    viper.GetString("codec"),
		DataDir:  viper.GetString("data-dir"),
		Metrics:  viper.GetBool("metrics"),
		LogLevel: viper.GetString("log-level"),
	}
}

// GetCodec creates the configured codec. It returns nil for "auto".
func GetCodec() (arena.IArenaCodec, error) {
	name := viper.GetString("codec")
	if name == "" || strings.EqualFold(name, CodecAuto) {
		return nil, nil
	}
	return arena.CodecByName(name)
}

// GetFs returns the filesystem paths are resolved in. With a data directory
// set, relative and absolute paths are both confined to it.
func GetFs() afero.Fs {
	fs := afero.NewOsFs()
	if dir := viper.GetString("data-dir"); dir != "" {
		return afero.NewBasePathFs(fs, filepath.Clean(dir))
	}
	return fs
}

// GetFileStore creates a file store over the configured filesystem and codec
func GetFileStore() (*serialization.FileStore, error) {
	codec, err := GetCodec()
	if err != nil {
		return nil, err
	}
	return serialization.NewFileStore(GetFs(), codec), nil
}

// ReadInput reads a whole input file from fs, "-" reads stdin
func ReadInput(fs afero.Fs, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return data, nil
}
