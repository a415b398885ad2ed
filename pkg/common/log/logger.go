/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"sync"

	"github.com/erikh/did-toolkit/pkg/internal/common/logging/metadata"
	spilog "github.com/erikh/did-toolkit/spi/log"
)

// Level is an alias of the SPI log level.
type Level = spilog.Level

// Log levels.
const (
	CRITICAL = spilog.CRITICAL
	ERROR    = spilog.ERROR
	WARNING  = spilog.WARNING
	INFO     = spilog.INFO
	DEBUG    = spilog.DEBUG
)

// Log is an implementation of the Logger interface.
// It encapsulates the default or a custom logger to provide module and level based logging.
type Log struct {
	instance spilog.Logger
	module   string
	once     sync.Once
}

// New creates and returns a Logger implementation based on the given module name.
// note: the underlying logger instance is lazily initialized on first use.
// To use your own logger implementation provide a logger provider in 'Initialize()'
// before logging any line. If 'Initialize()' is not called before logging any line
// then the default logging implementation is used.
func New(module string) *Log {
	return &Log{module: module}
}

// Fatalf calls the Fatalf function of the underlying logger.
// Should possibly cause system shutdown based on implementation.
func (l *Log) Fatalf(msg string, args ...interface{}) {
	l.logger().Fatalf(msg, args...)
}

// Panicf calls the Panicf function of the underlying logger.
// Should possibly cause a panic based on implementation.
func (l *Log) Panicf(msg string, args ...interface{}) {
	l.logger().Panicf(msg, args...)
}

// Debugf calls the Debugf function of the underlying logger.
func (l *Log) Debugf(msg string, args ...interface{}) {
	l.logger().Debugf(msg, args...)
}

// Infof calls the Infof function of the underlying logger.
func (l *Log) Infof(msg string, args ...interface{}) {
	l.logger().Infof(msg, args...)
}

// Warnf calls the Warnf function of the underlying logger.
func (l *Log) Warnf(msg string, args ...interface{}) {
	l.logger().Warnf(msg, args...)
}

// Errorf calls the Errorf function of the underlying logger.
func (l *Log) Errorf(msg string, args ...interface{}) {
	l.logger().Errorf(msg, args...)
}

func (l *Log) logger() spilog.Logger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})

	return l.instance
}

// SetLevel sets the log level for the given module. The default level is INFO.
func SetLevel(module string, level Level) {
	metadata.SetLevel(module, level)
}

// GetLevel returns the log level for the given module.
func GetLevel(module string) Level {
	return metadata.GetLevel(module)
}

// IsEnabledFor returns true if the given log level is enabled for the given module.
func IsEnabledFor(module string, level Level) bool {
	return metadata.IsEnabledFor(module, level)
}

// ParseLevel returns the log level from a string representation.
func ParseLevel(level string) (Level, error) {
	return spilog.ParseLevel(level)
}

// ParseString returns the string representation of the given log level.
func ParseString(level Level) string {
	return level.String()
}

// ShowCallerInfo enables caller info in log lines for the given module and level.
// note: depending on the custom logging provider, caller info may not be available.
func ShowCallerInfo(module string, level Level) {
	metadata.ShowCallerInfo(module, level)
}

// HideCallerInfo disables caller info in log lines for the given module and level.
func HideCallerInfo(module string, level Level) {
	metadata.HideCallerInfo(module, level)
}

// IsCallerInfoEnabled returns true if caller info is enabled for the given module and level.
func IsCallerInfoEnabled(module string, level Level) bool {
	return metadata.IsCallerInfoEnabled(module, level)
}
