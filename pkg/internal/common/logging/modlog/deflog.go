/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/erikh/did-toolkit/spi/log"
)

const (
	logLevelFormatter   = "UTC %s-> %s "
	logPrefixFormatter  = " [%s] "
	callerInfoFormatter = "- %s "
)

// NewDefLog returns a default logger implementation for the given module,
// backed by the standard library logger writing to stdout in UTC.
func NewDefLog(module string) *DefLog {
	logger := stdlog.New(os.Stdout, fmt.Sprintf(logPrefixFormatter, module),
		stdlog.Ldate|stdlog.Ltime|stdlog.LUTC)

	return &DefLog{logger: logger, module: module}
}

// DefLog is the default, standard-library-backed logger implementation.
type DefLog struct {
	logger *stdlog.Logger
	module string
}

// Fatalf is CRITICAL log formatted followed by a call to os.Exit(1).
func (l *DefLog) Fatalf(format string, args ...interface{}) {
	l.logf(getLoggerOpts(l.module, log.CRITICAL), log.CRITICAL, format, args...)
	os.Exit(1)
}

// Panicf is CRITICAL log formatted followed by a call to panic().
func (l *DefLog) Panicf(format string, args ...interface{}) {
	l.logf(getLoggerOpts(l.module, log.CRITICAL), log.CRITICAL, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Debugf logs verbose messages. Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Debugf(format string, args ...interface{}) {
	opts := getLoggerOpts(l.module, log.DEBUG)
	if !opts.levelEnabled {
		return
	}

	l.logf(opts, log.DEBUG, format, args...)
}

// Infof logs general information messages. INFO is the default logging level.
// Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Infof(format string, args ...interface{}) {
	opts := getLoggerOpts(l.module, log.INFO)
	if !opts.levelEnabled {
		return
	}

	l.logf(opts, log.INFO, format, args...)
}

// Warnf logs messages about possible issues. Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Warnf(format string, args ...interface{}) {
	opts := getLoggerOpts(l.module, log.WARNING)
	if !opts.levelEnabled {
		return
	}

	l.logf(opts, log.WARNING, format, args...)
}

// Errorf logs errors. Arguments are handled in the manner of fmt.Printf.
func (l *DefLog) Errorf(format string, args ...interface{}) {
	opts := getLoggerOpts(l.module, log.ERROR)
	if !opts.levelEnabled {
		return
	}

	l.logf(opts, log.ERROR, format, args...)
}

// ChangeOutput changes the output destination for the logger.
func (l *DefLog) ChangeOutput(output io.Writer) {
	l.logger.SetOutput(output)
}

func (l *DefLog) logf(opts *loggerOpts, level log.Level, format string, args ...interface{}) {
	customPrefix := fmt.Sprintf(logLevelFormatter, l.getCallerInfo(opts), level)

	if err := l.logger.Output(2, customPrefix+fmt.Sprintf(format, args...)); err != nil {
		fmt.Printf("error from logger.Output %v\n", err)
	}
}

// getCallerInfo returns the name of the first function in the call stack that
// does not belong to the logging packages themselves.
func (l *DefLog) getCallerInfo(opts *loggerOpts) string {
	if !opts.callerInfoEnabled {
		return ""
	}

	const (
		maxCallers  = 8
		skipCallers = 3
		notFound    = "n/a"
	)

	fpcs := make([]uintptr, maxCallers)

	n := runtime.Callers(skipCallers, fpcs)
	if n == 0 {
		return fmt.Sprintf(callerInfoFormatter, notFound)
	}

	frames := runtime.CallersFrames(fpcs[:n])

	for {
		f, more := frames.Next()

		_, fnName := filepath.Split(f.Function)
		if fnName == "" {
			fnName = notFound
		}

		if !strings.Contains(f.Function, "/common/log") &&
			!strings.Contains(f.Function, "/logging/modlog") {
			return fmt.Sprintf(callerInfoFormatter, fnName)
		}

		if !more {
			break
		}
	}

	return fmt.Sprintf(callerInfoFormatter, notFound)
}
