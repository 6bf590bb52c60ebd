// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

var Logger = newLogger()

// InitLogger re-applies the configured level after the env file has been
// loaded, since the package-level logger is built before main runs.
func InitLogger() {
	Logger.SetLevel(levelFromEnv())
}

func newLogger() *log.Logger {
	logger := log.New("dandi")
	logger.SetLevel(levelFromEnv())
	logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")
	return logger
}

func levelFromEnv() log.Lvl {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return log.DEBUG
	case "INFO":
		return log.INFO
	case "WARN":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	default:
		return log.INFO
	}
}
