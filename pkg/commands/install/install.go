package install

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"
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
	log.SetHandler(clilog.Default)

	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	if err := cfg.MkdirAll(); err != nil {
		return err
	}

	session, err := common.ReadSession(c)
	if err != nil {
		return err
	}

	st := store.New(cfg.InstallPath, cfg.Extension)
	client := catalog.New(cfg.APIURL, device.ID, cfg.Timeout)
	inst := install.New(client, st, download.New(0))

	if !client.Authenticate(c.Context, session) {
		return fmt.Errorf("login failed: invalid credentials or unauthorized device")
	}

	modName := c.Args().First()

	entries, err := inst.RefreshCatalog(c.Context, session)
	if err != nil {
		return err
	}

	entry, ok := findEntry(entries, modName)
	if !ok {
		// entitlement gate: a mod outside the set gets no install path at all
		return fmt.Errorf("%s is not available for this account", modName)
	}

	log.Infof("modvault/%s", common.AppVersion.Summary)
	log.Infof("    mod: %s", entry.Descriptor.DisplayName)
	log.Infof("   file: %s", st.Path(entry.Descriptor.InternalName))

	terminal := make(chan install.Progress, 1)
	sink := func(p install.Progress) {
		if p.Percent > 0 {
			log.Infof("%3d%% %s", p.Percent, p.Message)
		} else {
			log.Infof("%s", p.Message)
		}
		if p.State.Terminal() {
			select {
			case terminal <- p:
			default:
			}
		}
	}

	req := install.Request{
		ModName:      entry.Descriptor.DisplayName,
		InternalName: entry.Descriptor.InternalName,
		ResourceRef:  entry.Descriptor.ResourceRef,
		SerialKey:    c.String("key"),
	}

	if err := inst.Install(c.Context, req, sink); err != nil {
		return err
	}

	result := <-terminal

	// let the key rotation finish before the process exits
	inst.Wait()

	if result.State == install.StateFailed {
		return fmt.Errorf("install failed: %s", result.Message)
	}

	log.Infof("installation complete")

	return nil
}

func findEntry(entries []install.Entry, modName string) (install.Entry, bool) {
	for _, entry := range entries {
		if strings.EqualFold(strings.TrimSpace(entry.Descriptor.DisplayName), strings.TrimSpace(modName)) {
			return entry, true
		}
	}

	return install.Entry{}, false
}

func Before(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no mod specified")
	}

	if c.NArg() > 1 {
		return fmt.Errorf("only one mod can be specified")
	}

	if c.String("key") == "" {
		return fmt.Errorf("no serial key specified")
	}

	return common.Before(c)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "key",
			Usage:   "The serial key authorizing this installation",
			Aliases: []string{"k"},
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "install",
		Usage:       "install a purchased mod",
		Description: `download and install a purchased mod, gated by its serial key`,
		Before:      Before,
		Flags:       append(append(Flags(), common.SessionFlags()...), common.Flags()...),
		Action:      Execute,
		Args:        true,
		ArgsUsage:   " <mod name>",
	}

	common.RegisterCommand(cmd)
}
