/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"sync"

	"github.com/erikh/did-toolkit/pkg/internal/common/logging/modlog"
	spilog "github.com/erikh/did-toolkit/spi/log"
)

const (
	loggerNotInitializedMsg = "Default logger initialized (please call log.Initialize() if you wish to use a custom logger)"
	loggerModule            = "did-toolkit/common"
)

//nolint:gochecknoglobals
var (
	loggerProviderInstance spilog.LoggerProvider
	loggerProviderOnce     sync.Once
)

// Initialize sets the custom logger provider. It can be called once only, before
// any logging happens; later calls and calls after the default provider has been
// picked up are ignored.
func Initialize(l spilog.LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = &modlogProvider{custom: l}
	})
}

func loggerProvider() spilog.LoggerProvider {
	loggerProviderOnce.Do(func() {
		// a custom provider was not supplied in time, use the default one
		loggerProviderInstance = &modlogProvider{}

		logger := loggerProviderInstance.GetLogger(loggerModule)
		logger.Debugf(loggerNotInitializedMsg)
	})

	return loggerProviderInstance
}

// modlogProvider is a LoggerProvider that enforces module levels on top of
// either the custom provider's loggers or the default implementation.
type modlogProvider struct {
	custom spilog.LoggerProvider
}

// GetLogger returns a moduled logger for the given module.
func (p *modlogProvider) GetLogger(module string) spilog.Logger {
	var logger spilog.Logger
	if p.custom != nil {
		logger = p.custom.GetLogger(module)
	} else {
		logger = modlog.NewDefLog(module)
	}

	return modlog.NewModLog(logger, module)
}
