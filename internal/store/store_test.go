package store

import (
	"path/filepath"
	"testing"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "proxyctl.db")); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB() })

	s := NewStore()
	if err := s.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return s
}

func TestProxyDefaults(t *testing.T) {
	s := newTestStore(t)

	got, err := s.AppConfig.ProxyDefaults()
	if err != nil {
		t.Fatalf("ProxyDefaults() error = %v", err)
	}
	if got != (ProxyDefaults{Host: "127.0.0.1", Port: 1080}) {
		t.Errorf("ProxyDefaults() = %+v", got)
	}

	if err := s.AppConfig.SaveProxyDefaults(ProxyDefaults{Host: "10.0.0.5", Port: 3128}); err != nil {
		t.Fatalf("SaveProxyDefaults() error = %v", err)
	}

	// 新的 Store 从数据库重新加载
	fresh := NewStore()
	if err := fresh.LoadAll(); err != nil {
		t.Fatal(err)
	}
	got, _ = fresh.AppConfig.ProxyDefaults()
	if got != (ProxyDefaults{Host: "10.0.0.5", Port: 3128}) {
		t.Errorf("reloaded ProxyDefaults() = %+v", got)
	}
}

func TestSaveProxyDefaultsRejectsEmptyHost(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppConfig.SaveProxyDefaults(ProxyDefaults{Port: 80}); err == nil {
		t.Error("expected error for empty host")
	}
}

func TestSaveProxyDefaultsRejectsZeroPort(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppConfig.SaveProxyDefaults(ProxyDefaults{Host: "127.0.0.1", Port: 0}); err == nil {
		t.Fatal("expected error for port 0")
	}
	got, err := s.AppConfig.ProxyDefaults()
	if err != nil {
		t.Fatalf("ProxyDefaults() error = %v", err)
	}
	if got.Port != 1080 {
		t.Errorf("stored port = %d, want untouched default 1080", got.Port)
	}
}

func TestProxyDefaultsBadPort(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppConfig.Set(database.KeyProxyPort, "99999"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppConfig.ProxyDefaults(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	all := s.AppConfig.All()
	all[database.KeyProxyHost] = "mutated"
	if v, _ := s.AppConfig.Get(database.KeyProxyHost); v == "mutated" {
		t.Error("All() must return a copy")
	}
}
