//go:build !windows

package systemproxy

import "time"

type unavailableRegistry struct{}

func newRegistryStore() RegistryStore {
	return unavailableRegistry{}
}

func (unavailableRegistry) CreateKey(string) (RegistryKey, error) {
	return nil, ErrRegistryUnavailable
}

type unavailableBroadcaster struct{}

func newSettingsBroadcaster() SettingsBroadcaster {
	return unavailableBroadcaster{}
}

func (unavailableBroadcaster) Broadcast(string, time.Duration) error {
	return ErrBroadcastUnavailable
}
