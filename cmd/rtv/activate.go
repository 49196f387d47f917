package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/api"
	"github.com/vlahn/rewindtv/internal/config"
	"github.com/vlahn/rewindtv/internal/creds"
)

func activateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <code>",
		Short: "Activate this device with a subscription code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Keep the device identity across re-activations
			deviceID := uuid.NewString()
			if existing, err := creds.Load(cfg.CredsPath); err == nil && existing.DeviceID != "" {
				deviceID = existing.DeviceID
			}

			host, err := os.Hostname()
			if err != nil || host == "" {
				host = "rtv-terminal"
			}

			client := api.New(cfg.APIBase, nil)
			act, err := client.Activate(args[0], deviceID, host)
			if err != nil {
				return err
			}

			c := &creds.Credentials{
				DeviceID:    deviceID,
				Token:       act.Token,
				Plan:        act.Account.Plan,
				ExpiresAt:   act.Account.ExpiresAt,
				CatchupDays: act.Account.CatchupDays,
			}
			if err := creds.Save(cfg.CredsPath, c); err != nil {
				return err
			}

			fmt.Printf("Activated (%s plan", orUnknown(c.Plan))
			if c.ExpiresAt != "" {
				fmt.Printf(", expires %s", c.ExpiresAt)
			}
			fmt.Println(")")
			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
