package systemproxy

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandResult 外部命令的输出和退出码
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner 执行外部系统命令
// 命令顺序执行，不支持取消，也没有超时
type CommandRunner interface {
	Run(name string, args ...string) (CommandResult, error)
}

// CommandError 命令以非零退出码结束
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("%s %s failed: exit status %d (%s)", e.Name, strings.Join(e.Args, " "), e.ExitCode, msg)
}

type execRunner struct{}

// NewExecRunner 返回基于 os/exec 的 runner
func NewExecRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(name string, args ...string) (CommandResult, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
	}
	result.ExitCode = -1
	return result, fmt.Errorf("启动 %s 失败: %w", name, err)
}
