package login

import (
	"fmt"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"
	"github.com/urfave/cli/v2"

	"github.com/lynx96/modvault/pkg/catalog"
	"github.com/lynx96/modvault/pkg/common"
	"github.com/lynx96/modvault/pkg/config"
	"github.com/lynx96/modvault/pkg/device"
)

func Execute(c *cli.Context) error {
	log.SetHandler(clilog.Default)

	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	session, err := common.ReadSession(c)
	if err != nil {
		return err
	}

	client := catalog.New(cfg.APIURL, device.ID, cfg.Timeout)

	// wrong credentials, an unentitled device and an unreachable server are
	// deliberately one message
	if !client.Authenticate(c.Context, session) {
		return fmt.Errorf("login failed: invalid credentials or unauthorized device")
	}

	log.Infof("login ok for %s", session.Email)
	log.Infof("run '%s list' to see your mods", common.NAME)

	return nil
}

func init() {
	cmd := &cli.Command{
		Name:        "login",
		Usage:       "verify account credentials for this device",
		Description: `verify that the account credentials are accepted for this machine`,
		Before:      common.Before,
		Flags:       append(common.SessionFlags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
