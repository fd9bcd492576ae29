package list

import (
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

	session, err := common.ReadSession(c)
	if err != nil {
		return err
	}

	st := store.New(cfg.InstallPath, cfg.Extension)
	client := catalog.New(cfg.APIURL, device.ID, cfg.Timeout)
	inst := install.New(client, st, download.New(0))

	entries, err := inst.RefreshCatalog(c.Context, session)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		log.Warnf("no mods available for this account")
		return nil
	}

	for _, entry := range entries {
		state := "not installed"
		if entry.Installed {
			state = "installed"
		}
		log.Infof("%s (%s) - %s", entry.Descriptor.DisplayName, entry.Descriptor.InternalName, state)
	}

	return nil
}

func init() {
	cmd := &cli.Command{
		Name:        "list",
		Usage:       "list purchased mods and their install state",
		Description: `list the mods this account may install, with install state probed from disk`,
		Before:      common.Before,
		Flags:       append(common.SessionFlags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
