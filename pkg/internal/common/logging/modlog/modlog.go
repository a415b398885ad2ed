/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"github.com/erikh/did-toolkit/spi/log"
)

// NewModLog returns a moduled wrapper over the given logger implementation.
func NewModLog(logger log.Logger, module string) *ModLog {
	return &ModLog{logger: logger, module: module}
}

// ModLog is a moduled wrapper for a log.Logger implementation.
// It adds module-based level filtering on top of the provider's logger.
type ModLog struct {
	logger log.Logger
	module string
}

// Fatalf calls the underlying logger.Fatalf.
func (m *ModLog) Fatalf(format string, args ...interface{}) {
	m.logger.Fatalf(format, args...)
}

// Panicf calls the underlying logger.Panicf.
func (m *ModLog) Panicf(format string, args ...interface{}) {
	m.logger.Panicf(format, args...)
}

// Debugf calls the underlying logger.Debugf if DEBUG is enabled for the module.
func (m *ModLog) Debugf(format string, args ...interface{}) {
	if !getLoggerOpts(m.module, log.DEBUG).levelEnabled {
		return
	}

	m.logger.Debugf(format, args...)
}

// Infof calls the underlying logger.Infof if INFO is enabled for the module.
func (m *ModLog) Infof(format string, args ...interface{}) {
	if !getLoggerOpts(m.module, log.INFO).levelEnabled {
		return
	}

	m.logger.Infof(format, args...)
}

// Warnf calls the underlying logger.Warnf if WARNING is enabled for the module.
func (m *ModLog) Warnf(format string, args ...interface{}) {
	if !getLoggerOpts(m.module, log.WARNING).levelEnabled {
		return
	}

	m.logger.Warnf(format, args...)
}

// Errorf calls the underlying logger.Errorf if ERROR is enabled for the module.
func (m *ModLog) Errorf(format string, args ...interface{}) {
	if !getLoggerOpts(m.module, log.ERROR).levelEnabled {
		return
	}

	m.logger.Errorf(format, args...)
}
