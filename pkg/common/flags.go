package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Flags defines the global flags shared by every command
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Specify the configuration file to use",
			Aliases: []string{"c"},
			EnvVars: []string{"MODVAULT_CONFIG"},
			Value:   defaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log Level",
			Aliases: []string{"l"},
			EnvVars: []string{"MODVAULT_LOG_LEVEL"},
			Value:   "info",
		},
		&cli.BoolFlag{
			Name:    "log-caller",
			Usage:   "log the caller (aka line number and file)",
			EnvVars: []string{"MODVAULT_LOG_CALLER"},
		},
	}
}

// Before is a common global before hook that configures logging
func Before(c *cli.Context) error {
	formatter := &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	switch c.String("log-level") {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	}

	if c.Bool("log-caller") {
		logrus.SetReportCaller(true)
	}

	return nil
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homeDir, fmt.Sprintf(".%s", NAME), fmt.Sprintf("%s.yaml", NAME))
}
