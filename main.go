/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of ccnetlog.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/cmd"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()
	log := logger.L()
	if log == nil {
		panic("logger.L() returned nil: logger not initialized")
	}

	if err := telemetry.Init("ccnetlog"); err != nil {
		log.Warn("Telemetry disabled", zap.Error(err))
	} else if telemetry.IsEnabled() {
		log.Debug("Telemetry enabled",
			zap.String("file", os.Getenv(telemetry.FileEnv)),
			zap.String("run_id", telemetry.RunID()))
	}

	cmd.Execute()
}
