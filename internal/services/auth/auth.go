// Package auth stores TSIG secrets in the OS keychain, keyed by TSIG key
// name. Secrets never touch the YAML configuration or the audit log.
package auth

import (
	"errors"

	"nathanbeddoewebdev/zoneup/internal/util"
)

const ServiceName = "zoneup"

var ErrSecretNotFound = errors.New("tsig secret not found")

// Store persists TSIG secrets by key name.
type Store interface {
	SetSecret(keyName string, secret string) error
	GetSecret(keyName string) (string, error)
	DeleteSecret(keyName string) error
}

// DefaultStore returns the standard secret store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeKeyName normalizes a TSIG key name for consistent keychain lookup.
func NormalizeKeyName(keyName string) string {
	return util.NormalizeKey(keyName)
}
