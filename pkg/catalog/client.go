// Package catalog talks to the remote catalog/entitlement service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/sirupsen/logrus"
)

const serialKeyLength = 14

type Client struct {
	BaseURL string

	// DeviceID supplies the machine identifier sent with every
	// authentication and entitlement request, overridable for tests
	DeviceID func() (string, error)

	client *http.Client
}

// New creates a catalog client with a bounded request timeout. The service
// sends no cache headers, so the caching transport always revalidates and
// catalog queries stay fresh.
func New(baseURL string, deviceID func() (string, error), timeout time.Duration) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		DeviceID: deviceID,
		client: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   timeout,
		},
	}
}

// Authenticate reports whether the service accepts the credentials for this
// device. Wrong credentials, an unentitled device and an unreachable server
// are intentionally indistinguishable to the caller.
func (c *Client) Authenticate(ctx context.Context, session Session) bool {
	resp, err := c.getUserMods(ctx, session)
	if err != nil {
		logrus.WithError(err).Debug("authentication request failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// EntitledMods returns the normalized lowercase names the user may install.
// Lookups never fail hard, any error degrades to an empty set.
func (c *Client) EntitledMods(ctx context.Context, session Session) []string {
	resp, err := c.getUserMods(ctx, session)
	if err != nil {
		logrus.WithError(err).Debug("entitlement request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var records []userRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		logrus.WithError(err).Debug("unable to decode entitlement response")
		return nil
	}

	if len(records) == 0 {
		return nil
	}

	var mods []string
	for _, name := range strings.Split(records[0].UserMods, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		mods = append(mods, name)
	}

	return mods
}

// AllMods fetches the full catalog.
func (c *Client) AllMods(ctx context.Context) ([]Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/get_available_mods", http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching catalog: unexpected status %s", resp.Status)
	}

	var mods []Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&mods); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	logrus.Debugf("catalog: %d mods", len(mods))

	return mods, nil
}

// RotateSerialKey generates a fresh key client-side and asks the server to
// persist it for the internal name. The new key is returned only on explicit
// server acknowledgment.
func (c *Client) RotateSerialKey(ctx context.Context, internalName string) (string, error) {
	newKey := NewSerialKey()

	payload, err := json.Marshal(map[string]string{
		"mod_internal_name": internalName,
		"new_serial_key":    newKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/update_serial_key", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("rotating serial key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rotating serial key: unexpected status %s", resp.Status)
	}

	logrus.Debugf("serial key rotated for %s", internalName)

	return newKey, nil
}

// NewSerialKey derives a 14 character uppercase alphanumeric key from a
// random unique identifier.
func NewSerialKey() string {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(key[:serialKeyLength])
}

func (c *Client) getUserMods(ctx context.Context, session Session) (*http.Response, error) {
	deviceID, err := c.DeviceID()
	if err != nil {
		// fail closed, never skip the device binding
		return nil, fmt.Errorf("device identity: %w", err)
	}

	params := url.Values{}
	params.Set("email", session.Email)
	params.Set("password", session.Password)
	params.Set("mac_address", deviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/get_user_mods?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}

	return c.client.Do(req)
}
