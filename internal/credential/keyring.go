package credential

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/99designs/keyring"
)

const (
	serviceName    = "todoapp"
	currentUserKey = "current-user-id"
)

// ErrNoLogin is returned by CurrentUser when nobody is logged in.
var ErrNoLogin = errors.New("not logged in")

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todoapp/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todoapp-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// CurrentUser returns the ID of the user remembered by Login.
func CurrentUser() (int64, error) {
	ring, err := openKeyring()
	if err != nil {
		return 0, err
	}

	item, err := ring.Get(currentUserKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return 0, ErrNoLogin
	}
	if err != nil {
		return 0, fmt.Errorf("getting current user: %w", err)
	}

	id, err := strconv.ParseInt(string(item.Data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing current user %q: %w", item.Data, err)
	}
	return id, nil
}

// Login remembers userID as the acting user for later commands.
func Login(userID int64) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:         currentUserKey,
		Data:        []byte(strconv.FormatInt(userID, 10)),
		Label:       "todoapp current user",
		Description: "ID of the logged in todoapp user",
	})
	if err != nil {
		return fmt.Errorf("storing current user: %w", err)
	}

	return nil
}

// Logout forgets the acting user. It is not an error to log out twice.
func Logout() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(currentUserKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing current user: %w", err)
	}

	return nil
}
