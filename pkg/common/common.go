package common

import (
	"sort"

	"github.com/urfave/cli/v2"
)

const (
	NAME = "modvault"
)

var commands []*cli.Command

// RegisterCommand registers a command for the main cli application, commands
// register themselves from their package init.
func RegisterCommand(command *cli.Command) {
	commands = append(commands, command)
}

// GetCommands returns all registered commands sorted by name
func GetCommands() []*cli.Command {
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})

	return commands
}
