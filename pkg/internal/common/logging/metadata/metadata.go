/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"sync"

	"github.com/erikh/did-toolkit/spi/log"
)

//nolint:gochecknoglobals
var (
	rwmutex     = &sync.RWMutex{}
	levels      = newModuledLevels()
	callerInfos = newCallerInfo()
)

// SetLevel sets the log level for given module.
func SetLevel(module string, level log.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()

	levels.SetLevel(module, level)
}

// GetLevel returns the log level for given module.
func GetLevel(module string) log.Level {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return levels.GetLevel(module)
}

// IsEnabledFor returns true if given log level is enabled for given module.
func IsEnabledFor(module string, level log.Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return levels.IsEnabledFor(module, level)
}

// ShowCallerInfo enables caller info in log lines for given module and level.
func ShowCallerInfo(module string, level log.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()

	callerInfos.ShowCallerInfo(module, level)
}

// HideCallerInfo disables caller info in log lines for given module and level.
func HideCallerInfo(module string, level log.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()

	callerInfos.HideCallerInfo(module, level)
}

// IsCallerInfoEnabled returns true if caller info is enabled for given module and level.
func IsCallerInfoEnabled(module string, level log.Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()

	return callerInfos.IsCallerInfoEnabled(module, level)
}
