// Package catalog is the local channel cache: a sqlite mirror of the
// provider's channel list, refreshed when stale.
package catalog

// Channel is one live channel from the provider catalog.
type Channel struct {
	ID          int
	Name        string
	Group       string
	Logo        string
	Catchup     bool // provider archives this channel
	CatchupDays int  // archive depth, 0 when Catchup is false
}
