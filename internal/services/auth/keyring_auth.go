package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetSecret(keyName string, secret string) error {
	return keyring.Set(k.serviceName, NormalizeKeyName(keyName), secret)
}

func (k *KeyringStore) GetSecret(keyName string) (string, error) {
	secret, err := keyring.Get(k.serviceName, NormalizeKeyName(keyName))
	if err == nil {
		return secret, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteSecret(keyName string) error {
	err := keyring.Delete(k.serviceName, NormalizeKeyName(keyName))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	return err
}
