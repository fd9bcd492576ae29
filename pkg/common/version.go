package common

import "fmt"

// overwritten at build time via ldflags
var (
	VERSION = "1.0.0-dev"
	COMMIT  = "dirty"
	SUMMARY = ""
)

type Version struct {
	Name    string
	Version string
	Commit  string
	Summary string
}

// AppVersion is the rendered version information for the application
var AppVersion Version

func init() {
	if SUMMARY == "" {
		SUMMARY = fmt.Sprintf("%s-%s", VERSION, COMMIT)
	}

	AppVersion = Version{
		Name:    NAME,
		Version: VERSION,
		Commit:  COMMIT,
		Summary: SUMMARY,
	}
}
