package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tkcomments"
	keyringPrefix  = "tiktok_"
)

// ErrNoStoredSession is returned when the keychain holds nothing for the profile
var ErrNoStoredSession = errors.New("no stored session")

// StoredSession is what `tkcomments auth set` saves in the system keychain
type StoredSession struct {
	Cookie    string    `json:"cookie"`
	UserAgent string    `json:"user_agent,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// KeyringStore keeps one StoredSession per profile in the system keychain
type KeyringStore struct {
	profile string
}

// NewKeyringStore creates a keyring store for the given profile name
func NewKeyringStore(profile string) *KeyringStore {
	if profile == "" {
		profile = "default"
	}
	return &KeyringStore{profile: profile}
}

// Profile returns the profile this store reads and writes
func (k *KeyringStore) Profile() string {
	return k.profile
}

func (k *KeyringStore) key() string {
	return keyringPrefix + k.profile
}

// Save stores a session in the system keychain
func (k *KeyringStore) Save(session *StoredSession) error {
	if session == nil || len(ParseCookieHeader(session.Cookie)) == 0 {
		return errors.New("session must contain at least one cookie")
	}
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := keyring.Set(keyringService, k.key(), string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Load returns the stored session, or ErrNoStoredSession
func (k *KeyringStore) Load() (*StoredSession, error) {
	data, err := keyring.Get(keyringService, k.key())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoStoredSession
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var session StoredSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes the stored session
func (k *KeyringStore) Delete() error {
	err := keyring.Delete(keyringService, k.key())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoStoredSession
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return nil
}

// KeyringSource adapts a KeyringStore to the cookie and User-Agent loader chains
type KeyringSource struct {
	store *KeyringStore
}

// NewKeyringSource creates a loader backed by the given store
func NewKeyringSource(store *KeyringStore) *KeyringSource {
	return &KeyringSource{store: store}
}

func (s *KeyringSource) Name() string { return "keyring:" + s.store.Profile() }

// load treats an absent or unavailable keychain as "not present"
func (s *KeyringSource) load() (*StoredSession, error) {
	session, err := s.store.Load()
	if errors.Is(err, ErrNoStoredSession) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
		return nil, nil
	}
	return session, err
}

func (s *KeyringSource) LoadCookies() (map[string]string, error) {
	session, err := s.load()
	if err != nil || session == nil {
		return nil, err
	}
	return ParseCookieHeader(session.Cookie), nil
}

func (s *KeyringSource) LoadUserAgent() (string, error) {
	session, err := s.load()
	if err != nil || session == nil {
		return "", err
	}
	return session.UserAgent, nil
}
