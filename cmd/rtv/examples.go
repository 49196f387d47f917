package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Print sample time expressions for --time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ex := range timeparse.Examples() {
				fmt.Println(ex)
			}
			return nil
		},
	}
}
