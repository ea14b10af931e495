package systemproxy

import (
	"strings"
	"sync"
	"time"
)

type runnerCall struct {
	name string
	args []string
}

func (c runnerCall) String() string {
	return c.name + " " + strings.Join(c.args, " ")
}

// fakeRunner 记录所有调用；outputs 以 "name arg1 arg2" 为键返回固定输出
type fakeRunner struct {
	mu      sync.Mutex
	calls   []runnerCall
	outputs map[string]CommandResult
	fail    func(name string, args []string) error
}

func (r *fakeRunner) Run(name string, args ...string) (CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := runnerCall{name: name, args: append([]string(nil), args...)}
	r.calls = append(r.calls, call)
	result := r.outputs[call.String()]
	if r.fail != nil {
		if err := r.fail(name, args); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *fakeRunner) Calls() []runnerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runnerCall(nil), r.calls...)
}

type memKey struct {
	dwords  map[string]uint32
	strings map[string]string
}

// memRegistry 内存注册表，错误字段用于模拟失败
type memRegistry struct {
	keys      map[string]*memKey
	createErr error
	setErr    map[string]error
	deleteErr error
	opened    int
	closed    int
}

func newMemRegistry() *memRegistry {
	return &memRegistry{keys: make(map[string]*memKey), setErr: make(map[string]error)}
}

func (m *memRegistry) CreateKey(path string) (RegistryKey, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	k, ok := m.keys[path]
	if !ok {
		k = &memKey{dwords: make(map[string]uint32), strings: make(map[string]string)}
		m.keys[path] = k
	}
	m.opened++
	return &memKeyHandle{reg: m, key: k}, nil
}

func (m *memRegistry) value(path, name string) (any, bool) {
	k, ok := m.keys[path]
	if !ok {
		return nil, false
	}
	if v, ok := k.dwords[name]; ok {
		return v, true
	}
	if v, ok := k.strings[name]; ok {
		return v, true
	}
	return nil, false
}

type memKeyHandle struct {
	reg *memRegistry
	key *memKey
}

func (h *memKeyHandle) SetDWord(name string, value uint32) error {
	if err := h.reg.setErr[name]; err != nil {
		return err
	}
	delete(h.key.strings, name)
	h.key.dwords[name] = value
	return nil
}

func (h *memKeyHandle) SetString(name, value string) error {
	if err := h.reg.setErr[name]; err != nil {
		return err
	}
	delete(h.key.dwords, name)
	h.key.strings[name] = value
	return nil
}

func (h *memKeyHandle) DeleteValue(name string) error {
	if h.reg.deleteErr != nil {
		return h.reg.deleteErr
	}
	_, isDWord := h.key.dwords[name]
	_, isString := h.key.strings[name]
	if !isDWord && !isString {
		return ErrValueNotFound
	}
	delete(h.key.dwords, name)
	delete(h.key.strings, name)
	return nil
}

func (h *memKeyHandle) Close() error {
	h.reg.closed++
	return nil
}

type broadcastCall struct {
	area    string
	timeout time.Duration
}

type fakeBroadcaster struct {
	calls []broadcastCall
	err   error
}

func (b *fakeBroadcaster) Broadcast(area string, timeout time.Duration) error {
	b.calls = append(b.calls, broadcastCall{area: area, timeout: timeout})
	return b.err
}
