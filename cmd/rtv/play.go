package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/config"
	"github.com/vlahn/rewindtv/internal/creds"
	"github.com/vlahn/rewindtv/internal/player"
	"github.com/vlahn/rewindtv/internal/stream"
	"github.com/vlahn/rewindtv/internal/timeparse"
)

func playCmd() *cobra.Command {
	var timeExpr, untilExpr string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "play <channel>",
		Short: "Play a channel live or from a past time",
		Long: `Play a channel by numeric ID or name. With --time, playback starts at the
described past instant instead of live:

  rtv play "BBC One" --time "2 hours ago"
  rtv play 101 --time "yesterday at 3pm" --until "yesterday at 5pm"

Run 'rtv examples' for more time expressions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cr, err := creds.Load(cfg.CredsPath)
			if err != nil {
				return err
			}

			db, err := openCatalog(cfg, cr, refresh)
			if err != nil {
				return err
			}
			defer db.Close()

			ch, err := db.Lookup(args[0])
			if err != nil {
				return err
			}
			if ch == nil {
				return fmt.Errorf("channel not found: %s", args[0])
			}

			now := time.Now()
			var at, until int64
			label := "live"

			if timeExpr != "" {
				pt, ok, err := timeparse.Resolve(timeExpr, now)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("invalid or future time expression: %q", timeExpr)
				}
				at = pt.Timestamp
				label = pt.Description
			}
			if untilExpr != "" {
				if timeExpr == "" {
					return fmt.Errorf("--until requires --time")
				}
				pt, ok, err := timeparse.Resolve(untilExpr, now)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("invalid or future time expression: %q", untilExpr)
				}
				until = pt.Timestamp
			}

			u, err := stream.URL(cfg.APIBase, cr.Token, *ch, at, until, now)
			if err != nil {
				return err
			}

			fmt.Printf("Playing %s (%s)\n", ch.Name, label)
			return player.Play(cfg.Player, u, ch.Name)
		},
	}

	cmd.Flags().StringVar(&timeExpr, "time", "", "Start time, e.g. \"2 hours ago\" (default: live)")
	cmd.Flags().StringVar(&untilExpr, "until", "", "End of the catchup window")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force a catalog refresh")

	return cmd
}
