package storage

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(relPath string, r io.Reader) (int64, error) {
	args := m.Called(relPath, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) Remove(relPath string) error {
	args := m.Called(relPath)
	return args.Error(0)
}
