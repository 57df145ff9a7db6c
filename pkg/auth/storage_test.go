package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func Test_KeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("", "")

	secret := "1//0g-very_long/refresh+token==\x00ünïcode"
	require.NoError(t, store.Save(secret))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, secret, loaded)
}

func Test_KeyringStore_Overwrite(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("svc", "acct")

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", loaded)
}

func Test_KeyringStore_LoadNotFound(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("svc", "acct")

	_, err := store.Load()

	assert.True(t, IsCode(err, ErrStoreNotFound))
	assert.Equal(t, CategorySignIn, Category(err))
}

func Test_KeyringStore_Delete(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("svc", "acct")
	require.NoError(t, store.Save("rt"))

	require.NoError(t, store.Delete())

	_, err := store.Load()
	assert.True(t, IsCode(err, ErrStoreNotFound))
	assert.True(t, IsCode(store.Delete(), ErrStoreNotFound))
}

func Test_KeyringStore_Scoped(t *testing.T) {
	keyring.MockInit()
	a := NewKeyringStore("svc", "a")
	b := NewKeyringStore("svc", "b")

	require.NoError(t, a.Save("secret-a"))

	_, err := b.Load()
	assert.True(t, IsCode(err, ErrStoreNotFound))
}

func Test_KeyringStore_BackendError(t *testing.T) {
	backendErr := errors.New("secret service unavailable")
	keyring.MockInitWithError(backendErr)
	defer keyring.MockInit()
	store := NewKeyringStore("svc", "acct")

	err := store.Save("rt")
	assert.True(t, IsCode(err, ErrStore))
	assert.ErrorIs(t, err, backendErr)

	_, err = store.Load()
	assert.True(t, IsCode(err, ErrStore))
	assert.False(t, IsCode(err, ErrStoreNotFound))

	assert.True(t, IsCode(store.Delete(), ErrStore))
}
