package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/zbh255/bilog"
)

const (
	OpenLogger  int64 = 1 << 10
	CloseLogger int64 = 1 << 11
)

// LLogger littlescope内部使用的日志接口, 核心只会用它记录描述符的注册与构建
// 错误永远不会在核心中被记录, 它们会被直接返回给调用者
type LLogger interface {
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Panic(format string, v ...interface{})
}

var DefaultLogger LLogger

type LLoggerImpl struct {
	loggerOpen int64
	logging    bilog.Logger
}

func New(l bilog.Logger) LLogger {
	return &LLoggerImpl{logging: l, loggerOpen: OpenLogger}
}

// NewWriter 以writer作为输出创建一个Logger, 格式与DefaultLogger一致
func NewWriter(w io.Writer) LLogger {
	return New(newBiLogger(w))
}

func (c *LLoggerImpl) Debug(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Debug(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Info(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Info(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Warn(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Trace(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Error(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.ErrorFromString(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) Panic(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.PanicFromString(fmt.Sprintf(format, v...))
}

func (c *LLoggerImpl) ReadLoggerStatus() bool {
	return atomic.LoadInt64(&c.loggerOpen) == OpenLogger
}

func (c *LLoggerImpl) SetOpen(ok bool) {
	if ok {
		atomic.StoreInt64(&c.loggerOpen, OpenLogger)
	} else {
		atomic.StoreInt64(&c.loggerOpen, CloseLogger)
	}
}

// SetOpenLogger 开关DefaultLogger, DefaultLogger被替换为非LLoggerImpl时无效
func SetOpenLogger(ok bool) {
	logger, typeOk := DefaultLogger.(*LLoggerImpl)
	if !typeOk {
		return
	}
	logger.SetOpen(ok)
}

func newBiLogger(w io.Writer) bilog.Logger {
	return bilog.NewLogger(
		w, bilog.PANIC,
		bilog.WithTimes(),
		bilog.WithCaller(1),
		bilog.WithLowBuffer(0),
		bilog.WithTopBuffer(0),
	)
}

func init() {
	DefaultLogger = &LLoggerImpl{
		loggerOpen: OpenLogger,
		logging:    newBiLogger(os.Stdout),
	}
}
