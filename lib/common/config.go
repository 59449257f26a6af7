package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the settings shared by all vgraph commands.
type Config struct {
	// Codec is the arena codec name (proto, binary, json) or "auto" to detect
	// the codec when reading
	Codec string

	// DataDir is the directory relative paths are resolved against. Empty means
	// the working directory.
	DataDir string

	// Metrics prints the collected metrics in Prometheus format after the
	// command finished
	Metrics bool

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Encoding")
	addField("Codec", c.Codec)

	addSection("Storage")
	dir := c.DataDir
	if dir == "" {
		dir = "(working directory)"
	}
	addField("Data Directory", dir)

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Metrics", strconv.FormatBool(c.Metrics))

	return sb.String()
}
