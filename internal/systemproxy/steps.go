package systemproxy

import "sync"

// 操作名
const (
	OpEnable  = "enable"
	OpDisable = "disable"
)

// Windows 上的尽力而为步骤名；macOS 的步骤名取 networksetup 子命令（去掉前导 "-"）
const (
	StepOpenKey           = "open-key"
	StepSetProxyEnable    = "set-proxy-enable"
	StepDeleteProxyServer = "delete-proxy-server"
	StepBroadcast         = "broadcast"
	StepWinHTTP           = "winhttp"
)

// StepResult 一个尽力而为步骤的结果。
// 失败不会改变外层操作的返回值，只通过 StepObserver 暴露出来。
type StepResult struct {
	Operation string
	Step      string
	Target    string // 网络服务名或注册表值名，可为空
	Err       error
}

// OK 步骤是否成功
func (r StepResult) OK() bool {
	return r.Err == nil
}

// StepObserver 接收尽力而为步骤的结果
type StepObserver interface {
	ObserveStep(StepResult)
}

// StepObserverFunc 函数适配器
type StepObserverFunc func(StepResult)

func (f StepObserverFunc) ObserveStep(r StepResult) {
	f(r)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(StepResult) {}

// StepRecorder 把所有步骤结果记录在内存里
type StepRecorder struct {
	mu      sync.Mutex
	results []StepResult
}

func (r *StepRecorder) ObserveStep(result StepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

// Results 返回记录的副本
func (r *StepRecorder) Results() []StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StepResult, len(r.results))
	copy(out, r.results)
	return out
}

// Failures 只返回失败的步骤
func (r *StepRecorder) Failures() []StepResult {
	var failed []StepResult
	for _, res := range r.Results() {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}
