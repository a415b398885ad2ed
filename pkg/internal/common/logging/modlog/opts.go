/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"github.com/erikh/did-toolkit/pkg/internal/common/logging/metadata"
	"github.com/erikh/did-toolkit/spi/log"
)

// loggerOpts holds the customization settings in effect for one log call.
type loggerOpts struct {
	levelEnabled      bool
	callerInfoEnabled bool
}

func getLoggerOpts(module string, level log.Level) *loggerOpts {
	return &loggerOpts{
		levelEnabled:      metadata.IsEnabledFor(module, level),
		callerInfoEnabled: metadata.IsCallerInfoEnabled(module, level),
	}
}
