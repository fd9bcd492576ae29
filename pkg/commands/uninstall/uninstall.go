package uninstall

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"

	"github.com/lynx96/modvault/pkg/catalog"
	"github.com/lynx96/modvault/pkg/common"
	"github.com/lynx96/modvault/pkg/config"
	"github.com/lynx96/modvault/pkg/device"
	"github.com/lynx96/modvault/pkg/download"
	"github.com/lynx96/modvault/pkg/install"
	"github.com/lynx96/modvault/pkg/store"
)

func Execute(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	st := store.New(cfg.InstallPath, cfg.Extension)
	client := catalog.New(cfg.APIURL, device.ID, cfg.Timeout)
	inst := install.New(client, st, download.New(0))

	internalName := c.Args().First()

	// uninstall never contacts the remote service, no key rotation happens
	if err := inst.Uninstall(internalName); err != nil {
		if errors.Is(err, store.ErrNotInstalled) {
			log.Warnf("%s is not installed", internalName)
			return nil
		}
		return err
	}

	log.Infof("%s uninstalled", internalName)

	return nil
}

func Before(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one mod internal name must be specified")
	}

	return common.Before(c)
}

func init() {
	cmd := &cli.Command{
		Name:        "uninstall",
		Usage:       "uninstall a mod",
		Description: `remove the installed asset file for a mod internal name`,
		Before:      Before,
		Flags:       common.Flags(),
		Action:      Execute,
		Args:        true,
		ArgsUsage:   " <internal name>",
	}

	common.RegisterCommand(cmd)
}
