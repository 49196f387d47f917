package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/catalog"
	"github.com/vlahn/rewindtv/internal/config"
	"github.com/vlahn/rewindtv/internal/creds"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, credentials, catalog cache, and player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  API base: %s\n", cfg.APIBase)
			fmt.Printf("  Creds:    %s\n", cfg.CredsPath)
			fmt.Printf("  Cache:    %s\n", cfg.DBPath)

			fmt.Println("\n=== Credentials ===")
			cr, err := creds.Load(cfg.CredsPath)
			switch {
			case err == creds.ErrNotActivated:
				fmt.Println("  Status: NOT ACTIVATED (run 'rtv activate <code>')")
			case err != nil:
				fmt.Printf("  Status: ERROR (%v)\n", err)
			default:
				fmt.Printf("  Device:  %s\n", cr.DeviceID)
				fmt.Printf("  Plan:    %s\n", orUnknown(cr.Plan))
				if cr.ExpiresAt != "" {
					status := "OK"
					if cr.Expired(time.Now()) {
						status = "EXPIRED"
					}
					fmt.Printf("  Expires: %s (%s)\n", cr.ExpiresAt, status)
				}
				fmt.Printf("  Catchup: %d days\n", cr.CatchupDays)
			}

			fmt.Println("\n=== Catalog cache ===")
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'rtv channels' first)")
			} else if db, err := catalog.OpenDB(cfg.DBPath); err != nil {
				fmt.Printf("  Status: ERROR (%v)\n", err)
			} else {
				defer db.Close()
				n, err := db.Count()
				if err != nil {
					fmt.Printf("  Status: ERROR (%v)\n", err)
				} else {
					fmt.Printf("  Channels: %d\n", n)
				}
				if fetched, err := db.FetchedAt(); err == nil && !fetched.IsZero() {
					fmt.Printf("  Fetched:  %s\n", fetched.Format(time.RFC3339))
				}
			}

			fmt.Println("\n=== Player ===")
			if path, err := exec.LookPath(cfg.Player); err != nil {
				fmt.Printf("  %s: NOT FOUND in PATH\n", cfg.Player)
			} else {
				fmt.Printf("  %s: %s (OK)\n", cfg.Player, path)
			}

			// A quick end-to-end resolver check with a known-good expression.
			fmt.Println("\n=== Time resolver ===")
			if pt, ok, err := timeparse.Resolve("2 hours ago", time.Now()); err != nil || !ok {
				fmt.Printf("  Status: BROKEN (err=%v ok=%v)\n", err, ok)
			} else {
				fmt.Printf("  \"2 hours ago\" -> %d (%s)\n", pt.Timestamp, pt.Description)
			}

			return nil
		},
	}
}
