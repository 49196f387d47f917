package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vlahn/rewindtv/internal/api"
	"github.com/vlahn/rewindtv/internal/catalog"
	"github.com/vlahn/rewindtv/internal/config"
	"github.com/vlahn/rewindtv/internal/creds"
	"github.com/vlahn/rewindtv/internal/player"
	"github.com/vlahn/rewindtv/internal/stream"
	"github.com/vlahn/rewindtv/internal/tui"
	"golang.org/x/term"
)

func channelsCmd() *cobra.Command {
	var group string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "channels [filter]",
		Short: "Browse the channel catalog",
		Long: `Browse channels interactively when stdout is a terminal; otherwise print
TSV lines (id, name, group, catchup days) for scripting:

  rtv channels | fzf --delimiter='\t' --with-nth=2..`,
		Args: cobra.MaximumNArgs(1),
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

			opts := catalog.Options{Group: group}
			if len(args) == 1 {
				opts.Query = args[0]
			}

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return printChannelsTSV(db, opts)
			}

			sel, err := tui.Run(db, tui.Options{
				Filter: opts,
				LiveURL: func(ch catalog.Channel) (string, error) {
					return stream.URL(cfg.APIBase, cr.Token, ch, 0, 0, time.Now())
				},
			})
			if err != nil || sel == nil {
				return err
			}
			return playSelection(cfg, cr, sel)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Filter by channel group")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force a catalog refresh")

	return cmd
}

func printChannelsTSV(db *catalog.DB, opts catalog.Options) error {
	channels, err := db.Filter(opts)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		fmt.Fprintln(os.Stderr, "No channels found.")
		return nil
	}
	for _, ch := range channels {
		days := 0
		if ch.Catchup {
			days = ch.CatchupDays
		}
		fmt.Printf("%d\t%s\t%s\t%d\n", ch.ID, ch.Name, ch.Group, days)
	}
	return nil
}

// playSelection launches the player for a TUI selection (live or catchup).
func playSelection(cfg *config.Config, cr *creds.Credentials, sel *tui.Selection) error {
	var at int64
	label := "live"
	if sel.When != nil {
		at = sel.When.Timestamp
		label = sel.When.Description
	}
	u, err := stream.URL(cfg.APIBase, cr.Token, sel.Channel, at, 0, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Playing %s (%s)\n", sel.Channel.Name, label)
	return player.Play(cfg.Player, u, sel.Channel.Name)
}

// openCatalog opens the channel cache and refreshes it from the provider when
// forced or stale.
func openCatalog(cfg *config.Config, cr *creds.Credentials, force bool) (*catalog.DB, error) {
	db, err := catalog.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.CatalogTTLHours) * time.Hour
	if force || db.Stale(ttl, time.Now()) {
		channels, err := api.New(cfg.APIBase, nil).Channels(cr.Token)
		if err != nil {
			// A stale cache is still usable offline; a forced refresh is not.
			if n, cerr := db.Count(); !force && cerr == nil && n > 0 {
				fmt.Fprintf(os.Stderr, "catalog refresh failed, using cache: %v\n", err)
				return db, nil
			}
			db.Close()
			return nil, err
		}
		if err := db.Replace(channels, time.Now()); err != nil {
			db.Close()
			return nil, fmt.Errorf("update catalog cache: %w", err)
		}
	}
	return db, nil
}
