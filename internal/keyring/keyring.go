// Package keyring keeps secrets, such as the PostgreSQL connection string, in
// the OS keyring instead of config files or shell history.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/lolo8304/habits-together/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry addresses one secret in the OS keyring
type Entry struct {
	Service string
	Account string
}

// Connection holds the database connection string
var Connection = Entry{Service: constants.AppName, Account: constants.DefaultKeyringUser}

func (e Entry) Get() (string, error) {
	secret, err := gokeyring.Get(e.Service, e.Account)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (e Entry) Set(secret string) error {
	if secret == "" {
		return fmt.Errorf("refusing to store an empty %s", e.Account)
	}
	if err := gokeyring.Set(e.Service, e.Account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", e.Account, err)
	}
	return nil
}

func (e Entry) Delete() error {
	err := gokeyring.Delete(e.Service, e.Account)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to delete %s from keyring: %w", e.Account, err)
	}
	return nil
}

// Available probes the keyring with a lookup that is expected to miss
func Available() bool {
	_, err := Entry{Service: constants.AppName, Account: "availability-probe"}.Get()
	return err == nil || errors.Is(err, ErrNotFound)
}
