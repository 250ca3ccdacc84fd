package knowledge

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 500 * time.Millisecond

// Watcher 监听知识库文件变更并触发引擎重载
// 编辑器保存往往产生连续多个写事件，用短暂防抖合并成一次重载
type Watcher struct {
	engine  *Engine
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher 创建文件监听器，监听目标文件所在目录
// （多数编辑器通过rename替换文件，直接watch文件会丢事件）
func NewWatcher(path string, engine *Engine, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Watcher{
		engine:  engine,
		path:    path,
		watcher: fw,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start 启动监听循环
func (w *Watcher) Start() {
	go w.loop()
}

// Stop 停止监听
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	target := filepath.Clean(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				w.logger.Info("知识库文件变更，触发重载", zap.String("path", w.path))
				if err := w.engine.Reload(); err != nil {
					w.logger.Warn("自动重载失败", zap.Error(err))
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("文件监听错误", zap.Error(err))
		case <-w.done:
			return
		}
	}
}
