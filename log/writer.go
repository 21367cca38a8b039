package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// OutputOptions 日志输出目标
type OutputOptions struct {
	// 输出类型：console, file
	Type string `cfg:"type" def:"console" validate:"omitempty,oneof=console file"`
	// 控制台输出目标：stdout, stderr
	Target string `cfg:"target" def:"stdout" validate:"omitempty,oneof=stdout stderr"`
	// 文件路径，Type 为 file 时必填
	Path string `cfg:"path" validate:"required_if=Type file"`
}

// NewWriter 根据配置创建输出器
func NewWriter(options *OutputOptions) (io.WriteCloser, error) {
	if options == nil {
		return &consoleWriter{w: os.Stdout}, nil
	}
	switch options.Type {
	case "", "console":
		if options.Target == "stderr" {
			return &consoleWriter{w: os.Stderr}, nil
		}
		return &consoleWriter{w: os.Stdout}, nil
	case "file":
		return newFileWriter(options.Path)
	default:
		return nil, errors.Errorf("unsupported output type: %s", options.Type)
	}
}

type consoleWriter struct {
	w io.Writer
}

func (c *consoleWriter) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

// 控制台不需要关闭
func (c *consoleWriter) Close() error {
	return nil
}

type fileWriter struct {
	mu   sync.Mutex
	file *os.File
}

func newFileWriter(path string) (*fileWriter, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "create directory for %s failed", path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s failed", path)
	}
	return &fileWriter{file: file}, nil
}

func (f *fileWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, errors.New("file is closed")
	}
	return f.file.Write(p)
}

func (f *fileWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
