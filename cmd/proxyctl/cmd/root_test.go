package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/config"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/database"
	"github.com/CodeExpert787/VPN-Windows-Mac/internal/service"
)

func writeConfig(t *testing.T, lookupURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "proxyctl.log")
	cfg.DBPath = filepath.Join(dir, "proxyctl.db")
	cfg.LogLevel = "debug"
	if lookupURL != "" {
		cfg.IPLookupURL = lookupURL
	}
	path := filepath.Join(dir, "proxyctl.json")
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "proxyctl "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestDefaultsShowAndSet(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, "--config", cfgPath, "defaults", "show")
	if err != nil {
		t.Fatalf("defaults show error = %v", err)
	}
	if out != "host: 127.0.0.1\nport: 1080\n" {
		t.Errorf("defaults show = %q", out)
	}

	if _, err := execute(t, "--config", cfgPath, "defaults", "set", "--port", "7890"); err != nil {
		t.Fatalf("defaults set error = %v", err)
	}
	out, _ = execute(t, "--config", cfgPath, "defaults", "show")
	if out != "host: 127.0.0.1\nport: 7890\n" {
		t.Errorf("after set, defaults show = %q", out)
	}

	if _, err := execute(t, "--config", cfgPath, "defaults", "set"); err == nil {
		t.Error("defaults set without flags should fail")
	}
}

func TestDefaultsShowAll(t *testing.T) {
	cfgPath := writeConfig(t, "")
	if _, err := execute(t, "--config", cfgPath, "defaults", "set", "--host", "10.0.0.2"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", cfgPath, "defaults", "show", "--all")
	if err != nil {
		t.Fatalf("defaults show --all error = %v", err)
	}
	if out != "proxyHost: 10.0.0.2\nproxyPort: 1080\n" {
		t.Errorf("defaults show --all = %q", out)
	}
}

func TestDefaultsSetRejectsZeroPort(t *testing.T) {
	cfgPath := writeConfig(t, "")
	if _, err := execute(t, "--config", cfgPath, "defaults", "set", "--port", "0"); err == nil {
		t.Fatal("defaults set --port 0 should fail")
	}
	out, _ := execute(t, "--config", cfgPath, "defaults", "show")
	if out != "host: 127.0.0.1\nport: 1080\n" {
		t.Errorf("defaults changed after rejected set: %q", out)
	}
}

func TestEnableRejectsIncompleteTarget(t *testing.T) {
	cfgPath := writeConfig(t, "")

	// 绕过 defaults set 直接在库里写入 0 端口
	if err := database.InitDB(filepath.Join(filepath.Dir(cfgPath), "proxyctl.db")); err != nil {
		t.Fatal(err)
	}
	if err := database.SetAppConfig(database.KeyProxyPort, "0"); err != nil {
		t.Fatal(err)
	}
	database.CloseDB()

	for _, args := range [][]string{{"enable"}, {"enable", "--host", "10.0.0.1"}} {
		_, err := execute(t, append([]string{"--config", cfgPath}, args...)...)
		if !errors.Is(err, service.ErrNoProxyTarget) {
			t.Errorf("%v error = %v, want %v", args, err, service.ErrNoProxyTarget)
		}
	}
}

func TestIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"ip": "198.51.100.23"})
	}))
	defer srv.Close()

	out, err := execute(t, "--config", writeConfig(t, srv.URL), "ip")
	if err != nil {
		t.Fatalf("ip error = %v", err)
	}
	if out != "198.51.100.23\n" {
		t.Errorf("ip output = %q", out)
	}
}

func TestEnableUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("would change the real system proxy")
	}
	cfgPath := writeConfig(t, "")

	for _, args := range [][]string{{"enable", "--host", "10.0.0.1", "--port", "8080"}, {"enable"}, {"disable"}} {
		_, err := execute(t, append([]string{"--config", cfgPath}, args...)...)
		if err == nil || err.Error() != "proxy enabling/disabling is only implemented for Windows and macOS" {
			t.Errorf("%v error = %v", args, err)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	cfgPath := writeConfig(t, "")
	if _, err := execute(t, "--config", cfgPath, "--log-level", "loud", "defaults", "show"); err == nil {
		t.Error("invalid --log-level should fail")
	}
	if _, err := execute(t, "--config", cfgPath, "--log-level", "warn", "defaults", "show"); err != nil {
		t.Errorf("valid --log-level error = %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfgPath := writeConfig(t, "")
	cfg, used, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	opts := &rootOptions{cfg: cfg, cfgUsed: used}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runServe(ctx, opts, "127.0.0.1:0", false); err != nil {
		t.Fatalf("runServe() error = %v", err)
	}

	logData, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logData), "正在停止 HTTP API") {
		t.Errorf("shutdown not logged:\n%s", logData)
	}
}
