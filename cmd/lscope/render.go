package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func renderYAML(out io.Writer, rep *report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func renderText(out io.Writer, rep *report) error {
	w := bufio.NewWriter(out)
	base := rep.Base
	if base == "" {
		base = "<none>"
	}
	fmt.Fprintf(w, "IsClass: %v\n", rep.IsClass)
	fmt.Fprintf(w, "Name: %s\n", rep.Type)
	fmt.Fprintf(w, "GUID: %s\n", rep.GUID)
	fmt.Fprintf(w, "Base type: %s\n", base)
	if rep.Enum != "" {
		fmt.Fprintf(w, "%s enum names: %s\n", rep.Enum, strings.Join(rep.EnumNames, ", "))
	}

	fmt.Fprintln(w, "\nDeclared constructors:")
	for _, ctor := range rep.Constructors {
		fmt.Fprintln(w, ctor)
	}

	fmt.Fprintln(w, "\nDeclared static and instance, non-public and public members:")
	for _, m := range rep.Members {
		fmt.Fprintf(w, "%s %s Declared in %s\n\n", m.Kind, m.Name, m.DeclaredIn)
	}

	fmt.Fprintln(w, "\nDeclared static and instance, non-public and public field-specific data:")
	for _, f := range rep.Fields {
		static := ""
		if f.Static {
			static = "static "
		}
		fmt.Fprintf(w, "%s %sField %s %s\n", f.Visibility, static, f.Type, f.Name)
		if f.Previous != "" {
			fmt.Fprintf(w, "Increasing employee count of %s by %d\n", f.Owner, f.Delta)
			fmt.Fprintf(w, "Previous count: %s\n", f.Previous)
			fmt.Fprintf(w, "Current count: %s\n", f.Current)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "\nDeclared static and instance, non-public and public method-specific data:")
	for _, m := range rep.Methods {
		fmt.Fprintf(w, "Name: %s\n", m.Name)
		fmt.Fprintf(w, "Is generic: %v\n", m.Generic)
		fmt.Fprintf(w, "Parameters: (%s)\n", strings.Join(m.Parameters, ", "))
		fmt.Fprintf(w, "Return type: %s\n", m.ReturnType)
		if m.Was != "" {
			fmt.Fprintf(w, "Reprofiling %s (was %s)\n", m.Owner, m.Was)
			fmt.Fprintf(w, "Execution result: %s\n", m.Result)
		}
		if m.Output != "" {
			fmt.Fprintln(w, "Displaying stats via a binding")
			fmt.Fprint(w, m.Output)
		}
	}
	return w.Flush()
}
