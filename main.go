package main

import (
	"os"
	"path"

	"github.com/apex/log"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/lynx96/modvault/pkg/common"

	_ "github.com/lynx96/modvault/pkg/commands/info"
	_ "github.com/lynx96/modvault/pkg/commands/install"
	_ "github.com/lynx96/modvault/pkg/commands/list"
	_ "github.com/lynx96/modvault/pkg/commands/login"
	_ "github.com/lynx96/modvault/pkg/commands/uninstall"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			// log panics forces exit
			if _, ok := r.(*logrus.Entry); ok {
				os.Exit(1)
			}
			panic(r)
		}
	}()

	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Usage = `license-gated mod installer for Euro Truck Simulator 2`
	app.Description = `install purchased mods from the remote catalog, gated by per-mod serial keys`
	app.Version = common.AppVersion.Summary

	app.Before = common.Before
	app.Flags = common.Flags()

	app.Commands = common.GetCommands()
	app.CommandNotFound = func(context *cli.Context, command string) {
		log.Fatalf("command %s not found.", command)
	}

	ctx := signals.SetupSignalContext()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error(err.Error())
	}
}
