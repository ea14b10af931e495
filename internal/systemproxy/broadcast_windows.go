//go:build windows

package systemproxy

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

type winBroadcaster struct{}

func newSettingsBroadcaster() SettingsBroadcaster {
	return winBroadcaster{}
}

// Broadcast 向所有顶层窗口发送 WM_SETTINGCHANGE，lParam 为设置区域名
func (winBroadcaster) Broadcast(area string, timeout time.Duration) error {
	if err := procSendMessageTimeoutW.Find(); err != nil {
		return err
	}
	areaPtr, err := windows.UTF16PtrFromString(area)
	if err != nil {
		return err
	}

	var result uintptr
	ret, _, callErr := procSendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(areaPtr)),
		smtoAbortIfHung,
		uintptr(timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		if errno, ok := callErr.(windows.Errno); ok && errno != 0 {
			return fmt.Errorf("SendMessageTimeoutW failed: %w", errno)
		}
		return fmt.Errorf("SendMessageTimeoutW failed")
	}
	return nil
}
