// Package common provides the configuration and logging shared by the vgraph
// command-line tool.
//
// Key Components:
//
//   - Config: settings shared by all commands (codec, data directory, log
//     level, metrics output) with a sectioned String() for display.
//
//   - Logger: custom implementation of dragonboats logger.ILogger. All vgraph
//     packages obtain their logger via logger.GetLogger(name), InitLoggers
//     installs the factory and sets the level of every known logger.
package common
