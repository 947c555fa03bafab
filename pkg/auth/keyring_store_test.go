package auth

import (
	"testing"

	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("work")

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)

	require.NoError(t, store.Save(&StoredSession{Cookie: "sessionid=abc; lang=en", UserAgent: "UA/1"}))

	session, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sessionid=abc; lang=en", session.Cookie)
	assert.Equal(t, "UA/1", session.UserAgent)
	assert.False(t, session.SavedAt.IsZero())

	// Profiles are independent
	_, err = NewKeyringStore("other").Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)

	require.NoError(t, store.Delete())
	assert.ErrorIs(t, store.Delete(), ErrNoStoredSession)
}

func TestKeyringStoreRejectsEmptyCookie(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("")

	assert.Equal(t, "default", store.Profile())
	assert.Error(t, store.Save(&StoredSession{Cookie: "   "}))
	assert.Error(t, store.Save(nil))
}

func TestKeyringSourceIsLastResort(t *testing.T) {
	isolate(t)
	store := NewKeyringStore("ring")
	require.NoError(t, store.Save(&StoredSession{Cookie: "sessionid=ring", UserAgent: "RingUA/1"}))

	creds, err := DefaultResolver(t.TempDir(), "ring", logger.NewNopLogger()).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "keyring:ring", creds.CookieSource)
	assert.Equal(t, "ring", creds.Cookies["sessionid"])
	assert.Equal(t, "RingUA/1", creds.UserAgent)

	dir := t.TempDir()
	writeFile(t, dir, "cookies.txt", "sessionid=file")
	creds, err = DefaultResolver(dir, "ring", logger.NewNopLogger()).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "file", creds.Cookies["sessionid"])
	// The keychain still supplies the UA when no earlier UA source exists
	assert.Equal(t, "RingUA/1", creds.UserAgent)
}

func TestKeyringSourceAbsentIsNotAnError(t *testing.T) {
	keyring.MockInit()
	src := NewKeyringSource(NewKeyringStore("missing"))

	jar, err := src.LoadCookies()
	assert.NoError(t, err)
	assert.Nil(t, jar)

	ua, err := src.LoadUserAgent()
	assert.NoError(t, err)
	assert.Empty(t, ua)
}
