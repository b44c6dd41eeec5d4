package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TopiaNetwork/contractconf/cmd"
)

var mainCmd = &cobra.Command{Use: "contractconf"}

func main() {
	mainCmd.AddCommand(cmd.ConfigCmd())

	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}
