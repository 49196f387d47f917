package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <expression>",
		Short: "Show what a time expression resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, ok, err := timeparse.Resolve(args[0], time.Now())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("invalid or future time expression: %q", args[0])
			}
			fmt.Printf("timestamp:   %d\n", pt.Timestamp)
			fmt.Printf("instant:     %s\n", pt.Resolved.Format(time.RFC3339))
			fmt.Printf("description: %s\n", pt.Description)
			return nil
		},
	}
}
