package auth

// MockStore is an in-memory secret store for testing.
type MockStore struct {
	secrets map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[string]string)}
}

func (m *MockStore) SetSecret(keyName string, secret string) error {
	m.secrets[NormalizeKeyName(keyName)] = secret
	return nil
}

func (m *MockStore) GetSecret(keyName string) (string, error) {
	secret, ok := m.secrets[NormalizeKeyName(keyName)]
	if !ok {
		return "", ErrSecretNotFound
	}
	return secret, nil
}

func (m *MockStore) DeleteSecret(keyName string) error {
	key := NormalizeKeyName(keyName)
	if _, ok := m.secrets[key]; !ok {
		return ErrSecretNotFound
	}
	delete(m.secrets, key)
	return nil
}
