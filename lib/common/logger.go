package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// vgraphLogger implements the ILogger interface with custom formatting
type vgraphLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *vgraphLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *vgraphLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *vgraphLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *vgraphLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *vgraphLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *vgraphLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message
func (l *vgraphLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// LogOutput is where loggers created by CreateLogger write to. Stdout is
// reserved for command output, so the default is stderr.
var LogOutput io.Writer = os.Stderr

// CreateLogger implements dragonboats logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	return newLogger(pkgName, LogOutput)
}

func newLogger(pkgName string, w io.Writer) *vgraphLogger {
	return &vgraphLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: log.New(w, "", log.Ldate|log.Ltime),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// lookupLogLevel converts a string level to logger.LogLevel
func lookupLogLevel(level string) (logger.LogLevel, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, true
	case "info":
		return logger.INFO, true
	case "warning", "warn":
		return logger.WARNING, true
	case "error":
		return logger.ERROR, true
	default:
		return 0, false
	}
}

func invalidLogLevel(level string) error {
	return fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
}

// parseLogLevel is lookupLogLevel for levels that were already validated
func parseLogLevel(level string) logger.LogLevel {
	lvl, ok := lookupLogLevel(level)
	if !ok {
		panic(invalidLogLevel(level).Error())
	}
	return lvl
}

// ValidateLogLevel returns an error if level is not understood by InitLoggers.
func ValidateLogLevel(level string) error {
	if _, ok := lookupLogLevel(level); !ok {
		return invalidLogLevel(level)
	}
	return nil
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// LoggerNames lists the loggers used by the vgraph packages
var LoggerNames = []string{"arena", "serialization", "env", "cli"}

// InitLoggers installs the custom logger factory and sets the level of all
// vgraph loggers. It panics on an invalid level, call ValidateLogLevel first
// for user input.
func InitLoggers(level string) {
	logger.SetLoggerFactory(CreateLogger)

	lvl := parseLogLevel(level)
	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
}
