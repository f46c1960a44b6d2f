/*
Gbgpctl loads a grammar-based genetic programming grammar from a TOML file
and drives it interactively: deriving random individuals, synthesizing,
mutating and pruning them, without writing a line of Go.

Usage:

	gbgpctl [flags]

The flags are:

	-v, --version
		Give the current version of gbgpctl and then exit.

	-g, --grammar FILE
		Use the provided grammar TOML file. Defaults to the file "grammar.toml"
		in the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

	-c, --command COMMANDS
		Immediately run the given command(s) at start. Can be multiple
		commands separated by the ";" character.

Once a session has started, input is parsed as a gbgpctl command. For an
explanation of the commands, type "help" once in a session. To exit, type
"quit".
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/gbgp/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the interactive session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading the grammar.
	ExitInitError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile  = pflag.StringP("grammar", "g", "grammar.toml", "The grammar TOML file defining terminals, rules, and prune rules")
	forceDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand = pflag.StringP("command", "c", "", "Execute the given gbgpctl commands immediately at start and leave the session open")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var startCommands []string
	if *startCommand != "" {
		startCommands = strings.Split(*startCommand, ";")
	}

	sess, initErr := newSession(*grammarFile, os.Stdout, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	if err := sess.RunUntilQuit(startCommands); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
