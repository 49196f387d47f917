// Package stream builds playback URLs for live and catchup viewing.
package stream

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vlahn/rewindtv/internal/catalog"
)

// URL returns the HLS playback URL for a channel. at and until are UNIX
// seconds; at == 0 means live, until == 0 means an open-ended catchup window.
// now anchors the archive-depth check.
func URL(base, token string, ch catalog.Channel, at, until int64, now time.Time) (string, error) {
	if at == 0 && until != 0 {
		return "", fmt.Errorf("end time without a start time")
	}
	if at != 0 {
		if !ch.Catchup {
			return "", fmt.Errorf("channel %q has no catchup archive", ch.Name)
		}
		if until != 0 && until <= at {
			return "", fmt.Errorf("end time is not after start time")
		}
		if days := ch.CatchupDays; days > 0 {
			oldest := now.AddDate(0, 0, -days).Unix()
			if at < oldest {
				return "", fmt.Errorf("instant is outside the %d-day archive of %q", days, ch.Name)
			}
		}
	}

	q := url.Values{}
	q.Set("token", token)
	if at != 0 {
		q.Set("utc", strconv.FormatInt(at, 10))
		if until != 0 {
			q.Set("utc_end", strconv.FormatInt(until, 10))
		}
	}
	return fmt.Sprintf("%s/stream/%d/index.m3u8?%s",
		strings.TrimSuffix(base, "/"), ch.ID, q.Encode()), nil
}
