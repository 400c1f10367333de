package main

import (
	"fmt"
	"io"
	"os"

	"github.com/docopt/docopt-go"

	"clubdirectory/config"
)

const ClubCtlVersion = "0.1.0"

const usage = `Club directory control.

The server url comes from CLUB_API_BASE (default http://localhost:8080).
The session is kept in CLUBCTL_SESSION (default <user config dir>/clubctl/session.json).

Usage:
    clubctl list [--search=<text>] [--open] [--sort=<key>] [--retry=<n>]
    clubctl show <club_id>
    clubctl login <username>
    clubctl logout
    clubctl whoami
    clubctl users
    clubctl hold <club_id>
    clubctl give-up <club_id>
    clubctl add-event <club_id> --title=<title> --date=<date>
        [--capacity=<n>] [--description=<text>]
    clubctl remove-event <club_id> <event_id>
    clubctl add-member <club_id> <member_id> <name>
    clubctl remove-member <club_id> <member_id>
    clubctl edit <club_id> --name=<name> --capacity=<n>
    clubctl export [--out=<file>]
    clubctl import <file> [--sort=<key>]
    clubctl reset
    clubctl -h | --help
    clubctl --version

Options:
    -h --help               Show this screen.
    --version               Show version.
    --search=<text>         Case-insensitive substring of the club name.
    --open                  Only clubs with seats left.
    --sort=<key>            name-asc, name-desc, seats-desc or capacity-desc [default: name-asc].
    --retry=<n>             Extra load attempts after a failure [default: 1].
    --title=<title>         Event title.
    --date=<date>           Event date, ISO-8601.
    --capacity=<n>          Event or club capacity.
    --description=<text>    Event description.
    --name=<name>           Club name.
    --out=<file>            Write the export here instead of stdout.

The PIN for login is read from the terminal, or from CLUBCTL_PIN when stdin is not a terminal.`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses argv, executes one command and returns the process exit code.
func run(argv []string, out, errOut io.Writer) int {
	helpShown := false
	parser := &docopt.Parser{HelpHandler: func(err error, text string) {
		helpShown = true
		if err != nil {
			fmt.Fprintln(errOut, text)
			return
		}
		fmt.Fprintln(out, text)
	}}
	opts, err := parser.ParseArgs(usage, argv, ClubCtlVersion)
	if err != nil {
		return 2
	}
	if helpShown {
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "failed to load config: %v\n", err)
		return 1
	}
	a, err := newApp(cfg, out, config.NewLogger(errOut), sessionPath())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer a.close()

	if err := a.dispatch(opts); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	return 0
}
