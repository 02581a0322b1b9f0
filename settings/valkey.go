package settings

import (
	"context"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	valkeyKeyPrefix   = "ezcord:language:"
	connectionTimeout = 5 * time.Second
)

// ValkeyStore keeps locales as plain keys in Valkey or Redis.
type ValkeyStore struct {
	client valkey.Client
}

// OpenValkey connects to a redis://, rediss:// or valkey:// url and pings the server.
func OpenValkey(ctx context.Context, rawURL string) (*ValkeyStore, error) {
	if rest, ok := strings.CutPrefix(rawURL, "valkeys://"); ok {
		rawURL = "rediss://" + rest
	} else if rest, ok = strings.CutPrefix(rawURL, "valkey://"); ok {
		rawURL = "redis://" + rest
	}

	opts, err := valkey.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if pingErr := client.Do(pingCtx, client.B().Ping().Build()).Error(); pingErr != nil {
		client.Close()
		return nil, pingErr
	}

	return &ValkeyStore{client: client}, nil
}

// Locale reads the key of id. A missing key reports not found.
func (v *ValkeyStore) Locale(ctx context.Context, id string) (string, bool, error) {
	resp := v.client.Do(ctx, v.client.B().Get().Key(valkeyKeyPrefix+id).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}

	locale, err := resp.ToString()
	if err != nil {
		return "", false, err
	}
	return locale, true, nil
}

// SetLocale sets the key of id without expiry.
func (v *ValkeyStore) SetLocale(ctx context.Context, id, locale string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return v.client.Do(ctx, v.client.B().Set().Key(valkeyKeyPrefix+id).Value(locale).Build()).Error()
}

// DeleteLocale deletes the key of id.
func (v *ValkeyStore) DeleteLocale(ctx context.Context, id string) error {
	return v.client.Do(ctx, v.client.B().Del().Key(valkeyKeyPrefix+id).Build()).Error()
}

// Close closes the client.
func (v *ValkeyStore) Close() error {
	v.client.Close()
	return nil
}
