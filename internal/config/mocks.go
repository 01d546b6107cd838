package config

import "github.com/stretchr/testify/mock"

type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Token() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockCredentialStore) SetToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockCredentialStore) Description() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockCredentialStore) SetDescription(desc string) error {
	args := m.Called(desc)
	return args.Error(0)
}
