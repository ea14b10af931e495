package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变化。
// 监听的是文件所在目录，编辑器先删后建的保存方式也能收到事件。
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher 创建配置文件监听器，返回时监听已经生效
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件路径失败: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听失败: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("监听配置目录失败: %w", err)
	}

	return &Watcher{path: abs, watcher: fw}, nil
}

// Run 阻塞直到 ctx 结束。配置文件被写入或重建时重新加载，
// 结果（或加载错误）交给 onChange。Run 返回前会关闭底层监听。
func (w *Watcher) Run(ctx context.Context, onChange func(*Config, error)) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, _, err := LoadConfig(w.path)
			onChange(cfg, err)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("配置文件监听错误: %w", err))
		}
	}
}

// Close 在未调用 Run 时释放监听
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
