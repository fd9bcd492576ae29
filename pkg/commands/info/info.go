package info

import (
	"fmt"
	"runtime"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"

	"github.com/lynx96/modvault/pkg/common"
	"github.com/lynx96/modvault/pkg/config"
	"github.com/lynx96/modvault/pkg/device"
)

func Execute(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	deviceID, err := device.ID()
	if err != nil {
		deviceID = "unavailable"
	}

	log.Infof("modvault/%s", common.AppVersion.Summary)
	fmt.Println("")
	log.Infof("system information")
	log.Infof("      os: %s", runtime.GOOS)
	log.Infof("    arch: %s", runtime.GOARCH)
	log.Infof("  device: %s", deviceID)
	fmt.Println("")
	log.Infof("configuration")
	log.Infof("     api: %s", cfg.APIURL)
	log.Infof("    mods: %s", cfg.InstallPath)

	return nil
}

func init() {
	cmd := &cli.Command{
		Name:        "info",
		Usage:       "info",
		Description: `general information about modvault and the rendered configuration`,
		Flags:       common.Flags(),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
