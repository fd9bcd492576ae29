package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/lynx96/modvault/pkg/catalog"
)

// SessionFlags defines the credential flags shared by every command that
// talks to the catalog service. Credentials live for the process only, the
// protocol re-authenticates on every call.
func SessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Usage:    "Account email",
			EnvVars:  []string{"MODVAULT_EMAIL"},
			Category: "Authentication",
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Account password (prompted when omitted)",
			EnvVars:  []string{"MODVAULT_PASSWORD"},
			Category: "Authentication",
		},
	}
}

// ReadSession builds the session from flags, prompting for the password on
// the terminal when it was not supplied.
func ReadSession(c *cli.Context) (catalog.Session, error) {
	email := strings.TrimSpace(c.String("email"))
	if email == "" {
		return catalog.Session{}, fmt.Errorf("no email specified")
	}

	password := c.String("password")
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s: ", email)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return catalog.Session{}, fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}

	return catalog.Session{Email: email, Password: strings.TrimSpace(password)}, nil
}
