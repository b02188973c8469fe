// Package main provides the entry point for the ledger-import CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/ledger-import/cmd/analyze"
	"fjacquet/ledger-import/cmd/batch"
	"fjacquet/ledger-import/cmd/importcmd"
	"fjacquet/ledger-import/cmd/profiles"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/cmd/serve"
	"fjacquet/ledger-import/cmd/transactions"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(profiles.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
