package asset

import (
	"io"

	"github.com/pkg/errors"
)

type file []byte

func loadFile(r io.Reader, name string) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return file(data), nil
}

// File returns the contents of the named raw file asset.
func (m *Manager) File(name string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(File(name))
	if err != nil {
		return nil, err
	}
	if data, ok := a.(file); ok {
		return data, nil
	}
	return nil, errors.Errorf("asset %s is not a raw file", name)
}
