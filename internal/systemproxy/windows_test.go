package systemproxy

import (
	"errors"
	"testing"
	"time"

	apperr "github.com/CodeExpert787/VPN-Windows-Mac/internal/error"
)

type windowsFixture struct {
	reg      *memRegistry
	bc       *fakeBroadcaster
	runner   *fakeRunner
	recorder *StepRecorder
	proxy    *WindowsProxy
}

func newWindowsFixture() *windowsFixture {
	f := &windowsFixture{
		reg:      newMemRegistry(),
		bc:       &fakeBroadcaster{},
		runner:   &fakeRunner{},
		recorder: &StepRecorder{},
	}
	f.proxy = newWindowsProxy(f.reg, f.bc, f.runner, f.recorder)
	return f
}

func TestWindowsEnableWritesRegistry(t *testing.T) {
	f := newWindowsFixture()

	if err := f.proxy.Enable(ProxyConfig{Host: "10.0.0.1", Port: 8080}); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	if v, _ := f.reg.value(internetSettingsPath, "ProxyServer"); v != "10.0.0.1:8080" {
		t.Errorf("ProxyServer = %v, want 10.0.0.1:8080", v)
	}
	if v, _ := f.reg.value(internetSettingsPath, "ProxyEnable"); v != uint32(1) {
		t.Errorf("ProxyEnable = %v, want 1", v)
	}
	if f.reg.opened != f.reg.closed {
		t.Errorf("opened %d keys but closed %d", f.reg.opened, f.reg.closed)
	}

	if len(f.bc.calls) != 1 {
		t.Fatalf("broadcast calls = %d, want 1", len(f.bc.calls))
	}
	if got := f.bc.calls[0]; got.area != `Software\Microsoft\Windows\CurrentVersion\Internet Settings` || got.timeout != 5*time.Second {
		t.Errorf("broadcast = %+v", got)
	}

	calls := f.runner.Calls()
	if len(calls) != 1 || calls[0].String() != "netsh winhttp set proxy 10.0.0.1:8080" {
		t.Errorf("runner calls = %v, want [netsh winhttp set proxy 10.0.0.1:8080]", calls)
	}
	if failures := f.recorder.Failures(); len(failures) != 0 {
		t.Errorf("unexpected failures: %v", failures)
	}
}

func TestWindowsEnableMandatoryFailures(t *testing.T) {
	denied := errors.New("access denied")

	tests := []struct {
		name     string
		setup    func(*memRegistry)
		wantCode string
	}{
		{"create key", func(r *memRegistry) { r.createErr = denied }, apperr.CodeRegistryOpen},
		{"set ProxyEnable", func(r *memRegistry) { r.setErr["ProxyEnable"] = denied }, apperr.CodeRegistryWrite},
		{"set ProxyServer", func(r *memRegistry) { r.setErr["ProxyServer"] = denied }, apperr.CodeRegistryWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWindowsFixture()
			tt.setup(f.reg)

			err := f.proxy.Enable(ProxyConfig{Host: "127.0.0.1", Port: 1080})
			if err == nil {
				t.Fatal("Enable() should fail")
			}
			if !errors.Is(err, denied) {
				t.Errorf("error %v should wrap the registry error", err)
			}
			if code := apperr.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if len(f.bc.calls) != 0 || len(f.runner.Calls()) != 0 {
				t.Error("no best-effort step should run after a mandatory failure")
			}
		})
	}
}

func TestWindowsEnableIgnoresAuxiliaryFailures(t *testing.T) {
	f := newWindowsFixture()
	f.bc.err = errors.New("timeout")
	f.runner.fail = func(string, []string) error { return errors.New("netsh missing") }

	if err := f.proxy.Enable(ProxyConfig{Host: "proxy.local", Port: 3128}); err != nil {
		t.Fatalf("Enable() error = %v, want nil", err)
	}

	failures := f.recorder.Failures()
	if len(failures) != 2 {
		t.Fatalf("failures = %v, want broadcast and winhttp", failures)
	}
	if failures[0].Step != StepBroadcast || failures[1].Step != StepWinHTTP {
		t.Errorf("failure steps = %s, %s", failures[0].Step, failures[1].Step)
	}
	for _, res := range failures {
		if res.Operation != OpEnable {
			t.Errorf("operation = %q, want %q", res.Operation, OpEnable)
		}
	}
}

func TestWindowsEnableThenDisable(t *testing.T) {
	f := newWindowsFixture()

	if err := f.proxy.Enable(ProxyConfig{Host: "10.0.0.1", Port: 8080}); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := f.proxy.Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	if v, _ := f.reg.value(internetSettingsPath, "ProxyEnable"); v != uint32(0) {
		t.Errorf("ProxyEnable = %v, want 0", v)
	}
	if _, ok := f.reg.value(internetSettingsPath, "ProxyServer"); ok {
		t.Error("ProxyServer should be deleted")
	}

	calls := f.runner.Calls()
	if last := calls[len(calls)-1].String(); last != "netsh winhttp reset proxy" {
		t.Errorf("last command = %q, want netsh winhttp reset proxy", last)
	}
	if len(f.bc.calls) != 2 {
		t.Errorf("broadcast calls = %d, want 2", len(f.bc.calls))
	}
}

func TestWindowsDisableIsIdempotent(t *testing.T) {
	f := newWindowsFixture()

	for i := 0; i < 2; i++ {
		if err := f.proxy.Disable(); err != nil {
			t.Fatalf("Disable() #%d error = %v", i+1, err)
		}
	}
	if failures := f.recorder.Failures(); len(failures) != 0 {
		t.Errorf("deleting an absent ProxyServer should not be a failure: %v", failures)
	}
}

func TestWindowsDisableIsBestEffort(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*windowsFixture)
		wantSteps []string
	}{
		{
			name:      "open key fails",
			setup:     func(f *windowsFixture) { f.reg.createErr = errors.New("denied") },
			wantSteps: []string{StepOpenKey},
		},
		{
			name: "writes fail",
			setup: func(f *windowsFixture) {
				f.reg.setErr["ProxyEnable"] = errors.New("denied")
				f.reg.deleteErr = errors.New("denied")
			},
			wantSteps: []string{StepSetProxyEnable, StepDeleteProxyServer},
		},
		{
			name: "notify fails",
			setup: func(f *windowsFixture) {
				f.bc.err = errors.New("hung")
				f.runner.fail = func(string, []string) error { return errors.New("exit 1") }
			},
			wantSteps: []string{StepBroadcast, StepWinHTTP},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWindowsFixture()
			tt.setup(f)

			if err := f.proxy.Disable(); err != nil {
				t.Fatalf("Disable() error = %v, want nil", err)
			}
			if len(f.bc.calls) != 1 {
				t.Errorf("broadcast calls = %d, want 1", len(f.bc.calls))
			}
			calls := f.runner.Calls()
			if len(calls) != 1 || calls[0].String() != "netsh winhttp reset proxy" {
				t.Errorf("runner calls = %v", calls)
			}

			failures := f.recorder.Failures()
			if len(failures) != len(tt.wantSteps) {
				t.Fatalf("failures = %v, want steps %v", failures, tt.wantSteps)
			}
			for i, step := range tt.wantSteps {
				if failures[i].Step != step {
					t.Errorf("failure[%d].Step = %q, want %q", i, failures[i].Step, step)
				}
			}
		})
	}
}
