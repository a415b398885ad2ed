/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"errors"
	"strings"
)

// Level is the severity of a logging message.
type Level int

// Log levels, most severe first.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

//nolint:gochecknoglobals
var levelNames = []string{
	"CRITICAL",
	"ERROR",
	"WARNING",
	"INFO",
	"DEBUG",
}

// ParseLevel returns the Level named by level. Matching is case insensitive.
func ParseLevel(level string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, level) {
			return Level(i), nil
		}
	}

	return ERROR, errors.New("logger: invalid log level")
}

// String returns the name of the level.
func (l Level) String() string {
	if l < CRITICAL || l > DEBUG {
		return "UNKNOWN"
	}

	return levelNames[l]
}

// Logger logs messages for a single module.
type Logger interface {
	Panicf(msg string, args ...interface{})
	Fatalf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Debugf(msg string, args ...interface{})
}

// LoggerProvider is a factory for moduled loggers.
type LoggerProvider interface {
	GetLogger(module string) Logger
}
