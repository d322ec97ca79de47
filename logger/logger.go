package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Rotator is an io.Writer that rolls the file over once it reaches MaxSize
// bytes, keeping MaxBackups old files as name.1, name.2, ...
type Rotator struct {
	Filename   string
	MaxSize    int64
	MaxBackups int
	file       *os.File
	size       int64
	mu         sync.Mutex
}

// Setup points the fiber logger at stdout and, when filename is set, a
// rotating log file. It returns the writer in use.
func Setup(filename string, maxSizeMB int64, maxBackups int, level string) io.Writer {
	log.SetLevel(ParseLevel(level))

	if filename == "" {
		log.SetOutput(os.Stdout)
		return os.Stdout
	}

	rotator := &Rotator{
		Filename:   filename,
		MaxSize:    maxSizeMB * 1024 * 1024,
		MaxBackups: maxBackups,
	}
	if err := rotator.openExistingOrNew(); err != nil {
		log.Warnf("Failed to open log file %s, using stdout only: %v", filename, err)
		log.SetOutput(os.Stdout)
		return os.Stdout
	}

	mw := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(mw)
	return mw
}

func ParseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return log.LevelTrace
	case "DEBUG":
		return log.LevelDebug
	case "WARN", "WARNING":
		return log.LevelWarn
	case "ERROR":
		return log.LevelError
	}
	return log.LevelInfo
}

func (r *Rotator) openExistingOrNew() error {
	info, err := os.Stat(r.Filename)
	if os.IsNotExist(err) {
		return r.openNew()
	}
	if err != nil {
		return err
	}

	f, err := os.OpenFile(r.Filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	r.file = f
	r.size = info.Size()
	return nil
}

func (r *Rotator) openNew() error {
	f, err := os.OpenFile(r.Filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	r.file = f
	r.size = 0
	return nil
}

func (r *Rotator) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err = r.openExistingOrNew(); err != nil {
			return 0, err
		}
	}

	if r.MaxSize > 0 && r.size+int64(len(p)) > r.MaxSize {
		if err := r.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts name.N-1 -> name.N down to name -> name.1 and reopens name.
func (r *Rotator) rotate() error {
	if r.file != nil {
		r.file.Close()
	}

	for i := r.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.Filename, i)
		if _, err := os.Stat(oldPath); os.IsNotExist(err) {
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", r.Filename, i+1))
	}

	if r.MaxBackups > 0 {
		if _, err := os.Stat(r.Filename); err == nil {
			os.Rename(r.Filename, r.Filename+".1")
		}
	}

	return r.openNew()
}
