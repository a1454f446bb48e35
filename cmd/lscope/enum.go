package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type enumReport struct {
	Type  string   `yaml:"type"`
	Names []string `yaml:"names"`
}

func NewEnumCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enum <type>",
		Short: "Print the member names of an enum type in declaration order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnum(rootOpts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runEnum(opts *RootOptions, typeName string, out, logOut io.Writer) error {
	s, err := newSession(opts, logOut)
	if err != nil {
		return err
	}
	td, err := s.registry.Resolve(typeName, true)
	if err != nil {
		return err
	}
	names, err := s.registry.NamesOf(td.Type)
	if err != nil {
		return err
	}
	if opts.Format == "yaml" {
		data, err := yaml.Marshal(&enumReport{Type: td.Name, Names: names})
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	_, err = fmt.Fprintf(out, "%s enum names: %s\n", td.Name, strings.Join(names, ", "))
	return err
}
