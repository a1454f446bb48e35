package registry

import (
	"github.com/google/uuid"
	"github.com/nyan233/littlescope/core/common/errorhandler"
	logger2 "github.com/nyan233/littlescope/core/common/logger"
	perror "github.com/nyan233/littlescope/core/protocol/error"
)

type Option func(config *Config)

func (opt Option) apply(config *Config) {
	opt(config)
}

func DirectConfig(uCfg Config) Option {
	return func(config *Config) {
		*config = uCfg
	}
}

func WithDefault() Option {
	return func(config *Config) {
		WithLogger(logger2.DefaultLogger)(config)
		WithNoStackTrace()(config)
		WithNamespace(DefaultNamespace)(config)
	}
}

func WithLogger(logger logger2.LLogger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}

func WithOpenLogger(ok bool) Option {
	return func(config *Config) {
		if !ok {
			config.Logger = logger2.NilLogger{}
		}
	}
}

func WithStackTrace() Option {
	return WithErrHandler(errorhandler.NewStackTrace())
}

func WithNoStackTrace() Option {
	return WithErrHandler(errorhandler.DefaultErrHandler)
}

func WithErrHandler(eh perror.LErrors) Option {
	return func(config *Config) {
		config.ErrHandler = eh
	}
}

// WithNamespace 修改生成类型身份标识的命名空间, 不同命名空间下同一个类型的标识不同
func WithNamespace(ns uuid.UUID) Option {
	return func(config *Config) {
		config.Namespace = ns
	}
}
