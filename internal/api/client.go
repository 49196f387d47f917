// Package api talks to the activation and catalog endpoints. Calls are
// sequential and retry-free; failures surface to the command layer.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vlahn/rewindtv/internal/catalog"
)

const (
	defaultTimeout      = 30 * time.Second
	idleConnTimeout     = 90 * time.Second
	maxIdleConnsPerHost = 4
)

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the given API base URL. httpClient may be nil.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		}
	}
	return &Client{base: strings.TrimSuffix(base, "/"), http: httpClient}
}

// Activation is the server's response to a successful device activation.
type Activation struct {
	Token   string `json:"token"`
	Account struct {
		Plan        string `json:"plan"`
		ExpiresAt   string `json:"expires_at"`
		CatchupDays int    `json:"catchup_days"`
	} `json:"account"`
}

// Activate exchanges an activation code and device identity for a token.
func (c *Client) Activate(code, deviceID, deviceName string) (*Activation, error) {
	payload, err := json.Marshal(map[string]string{
		"code":        code,
		"device_id":   deviceID,
		"device_name": deviceName,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.base+"/api/v2/device/activate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("activate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activate: %s: %s", resp.Status, serverMessage(body))
	}

	var act Activation
	if err := json.Unmarshal(body, &act); err != nil {
		return nil, fmt.Errorf("activate: decode response: %w", err)
	}
	if act.Token == "" {
		return nil, fmt.Errorf("activate: server returned no token")
	}
	return &act, nil
}

type channelJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Logo        string `json:"logo"`
	Catchup     bool   `json:"catchup"`
	CatchupDays int    `json:"catchup_days"`
}

// Channels fetches the full channel catalog for an activated device.
func (c *Client) Channels(token string) ([]catalog.Channel, error) {
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/v2/channels", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("channels: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("channels: read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("channels: token rejected, re-run activation")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channels: %s: %s", resp.Status, serverMessage(body))
	}

	var raw []channelJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("channels: decode response: %w", err)
	}

	channels := make([]catalog.Channel, 0, len(raw))
	for _, ch := range raw {
		if ch.Name == "" {
			continue
		}
		channels = append(channels, catalog.Channel{
			ID:          ch.ID,
			Name:        ch.Name,
			Group:       ch.Group,
			Logo:        ch.Logo,
			Catchup:     ch.Catchup,
			CatchupDays: ch.CatchupDays,
		})
	}
	return channels, nil
}

// serverMessage extracts {"error": "..."} bodies, falling back to a trimmed
// raw body.
func serverMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "no response body"
	}
	return s
}
