//go:build windows

package systemproxy

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

type winRegistryStore struct{}

func newRegistryStore() RegistryStore {
	return winRegistryStore{}
}

func (winRegistryStore) CreateKey(path string) (RegistryKey, error) {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if err != nil {
		return nil, err
	}
	return &winRegistryKey{key: key}, nil
}

type winRegistryKey struct {
	key registry.Key
}

func (k *winRegistryKey) SetDWord(name string, value uint32) error {
	return k.key.SetDWordValue(name, value)
}

func (k *winRegistryKey) SetString(name, value string) error {
	return k.key.SetStringValue(name, value)
}

func (k *winRegistryKey) DeleteValue(name string) error {
	return mapRegistryErr(k.key.DeleteValue(name))
}

func (k *winRegistryKey) Close() error {
	return k.key.Close()
}

func mapRegistryErr(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return ErrValueNotFound
	}
	return err
}
