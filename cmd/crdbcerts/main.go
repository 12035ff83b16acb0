// Package main is the entry point for the crdbcerts CLI.
//
// crdbcerts provisions the certificate material of one or more CockroachDB
// clusters that trust each other: a CA per created cluster, a root client
// certificate and a node certificate naming every node of every cluster.
//
// Commands: init, generate, names, doctor.
//
// For detailed usage information, run:
//
//	crdbcerts --help
package main

import (
	"fmt"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/manager/signals"

	"github.com/imamik/crdbcerts/cmd/crdbcerts/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	// The first SIGINT or SIGTERM cancels the run so the lock is released;
	// a second one exits immediately.
	if err := commands.Root().ExecuteContext(signals.SetupSignalHandler()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
