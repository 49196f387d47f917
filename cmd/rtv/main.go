package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "rtv",
		Short:   "rewindtv - watch live and catchup TV from the terminal",
		Version: version,
	}

	rootCmd.AddCommand(activateCmd())
	rootCmd.AddCommand(channelsCmd())
	rootCmd.AddCommand(playCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(examplesCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
