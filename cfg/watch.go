package cfg

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher 监听配置文件变更
type Watcher struct {
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
	once    sync.Once
}

// Watch 文件被写入或重新创建时调用 onChange，onError 接收监听错误，可以为 nil
// 监听所在目录，编辑器先删后建的保存方式也能感知
func Watch(filename string, onChange func(), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, errors.Wrap(err, "invalid file path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.Wrap(err, "failed to add directory to watcher")
	}

	w := &Watcher{watcher: fw}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(abs) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					onChange()
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()

	return w, nil
}

// Close 停止监听，等待回调 goroutine 退出
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
