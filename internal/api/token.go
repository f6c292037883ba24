package api

import (
	"go.uber.org/zap"

	"citysafe/pkg/kvstore"
	"citysafe/pkg/logger"
)

// Device store key for the bearer token.
const tokenKey = "citysafe_auth_token"

// TokenStore owns the persisted auth token. Presence of a token implies an
// authenticated session; absence implies guest mode.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// DeviceTokenStore keeps the token in the on-device key-value store.
type DeviceTokenStore struct {
	kv *kvstore.Store
}

func NewDeviceTokenStore(kv *kvstore.Store) *DeviceTokenStore {
	return &DeviceTokenStore{kv: kv}
}

func (s *DeviceTokenStore) Token() (string, error) {
	var token string
	ok, err := s.kv.Get(tokenKey, &token)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (s *DeviceTokenStore) SetToken(token string) error {
	return s.kv.Put(tokenKey, token)
}

func (s *DeviceTokenStore) Clear() error {
	return s.kv.Delete(tokenKey)
}

// token reads the persisted token, swallowing storage failures; callers get
// "" as if no session existed.
func (c *Client) token() string {
	t, err := c.tokens.Token()
	if err != nil {
		logger.Warn("read auth token failed", zap.Error(err))
		return ""
	}
	return t
}

// AuthToken exposes the current token for startup checks. The second return
// is false in guest mode.
func (c *Client) AuthToken() (string, bool) {
	t := c.token()
	return t, t != ""
}

// ClearToken drops the persisted token. Storage failures are logged, never
// propagated.
func (c *Client) ClearToken() {
	if err := c.tokens.Clear(); err != nil {
		logger.Warn("clear auth token failed", zap.Error(err))
	}
}
