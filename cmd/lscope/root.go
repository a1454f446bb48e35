package main

import (
	"fmt"
	"io"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/logger"
	"github.com/nyan233/littlescope/core/invoker"
	"github.com/nyan233/littlescope/core/registry"
	"github.com/nyan233/littlescope/internal/factory"
	"github.com/spf13/cobra"
)

// RootOptions 所有子命令共享的参数
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "yaml"
}

var ValidFormats = []string{"text", "yaml"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "lscope",
		Short: "lscope - inspect and drive types through littlescope descriptors",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print registry logs and stack traces of errors")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|yaml)")

	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewEnumCommand(opts))
	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session 一次命令执行使用的注册表与调用器, 已经注册了Factory与FactoryType
type session struct {
	registry *registry.Registry
	invoker  *invoker.Invoker
}

func newSession(opts *RootOptions, logOut io.Writer) (*session, error) {
	regOpts := []registry.Option{registry.WithOpenLogger(false)}
	eHandle := errorhandler.DefaultErrHandler
	if opts.Verbose {
		regOpts = []registry.Option{registry.WithLogger(logger.NewWriter(logOut)), registry.WithStackTrace()}
		eHandle = errorhandler.NewStackTrace()
	}
	r := registry.New(regOpts...)
	if err := factory.Define(r); err != nil {
		return nil, err
	}
	return &session{
		registry: r,
		invoker:  invoker.New(eHandle),
	}, nil
}
