package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/sai-complete/classpath"
	"github.com/dhamidi/sai-complete/java"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file|class>",
		Short: "Dump the class models completion sees for a file or class",
		Long: `Print the class models built from a .class or .java file, or the model
of a class of the built-in core library given by its binary name.

Examples:
  sai dump build/classes/p/A.class
  sai dump src/p/A.java
  sai dump java.util.Map$Entry`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var models []*java.ClassModel

			switch filepath.Ext(name) {
			case ".class":
				model, err := java.ClassModelFromFile(name)
				if err != nil {
					return fmt.Errorf("parse class file: %w", err)
				}
				models = []*java.ClassModel{model}
			case ".java":
				data, err := os.ReadFile(name)
				if err != nil {
					return fmt.Errorf("read java file: %w", err)
				}
				models = java.ParseSourceFile(name, data).ClassModels(classpath.Builtin())
			default:
				model := classpath.Builtin().FindClass(name)
				if model == nil {
					return fmt.Errorf("unknown class %s", name)
				}
				models = []*java.ClassModel{model}
			}

			out := cmd.OutOrStdout()
			for _, model := range models {
				switch dumpFormat {
				case "json":
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(model); err != nil {
						return fmt.Errorf("encode json: %w", err)
					}
				case "java":
					writeModel(out, model)
				default:
					return fmt.Errorf("unknown format: %s", dumpFormat)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "java", "output format (java, json)")

	return cmd
}

// writeModel prints a declaration-only Java rendering of c.
func writeModel(w io.Writer, c *java.ClassModel) {
	var mods []string
	if c.Visibility != java.VisibilityPackage && c.Visibility != "" {
		mods = append(mods, string(c.Visibility))
	}
	if c.IsStatic {
		mods = append(mods, "static")
	}
	if c.IsAbstract && !c.IsInterface() {
		mods = append(mods, "abstract")
	}
	if c.IsFinal {
		mods = append(mods, "final")
	}
	kind := string(c.Kind)
	if c.Kind == java.ClassKindAnnotation {
		kind = "@interface"
	}
	mods = append(mods, kind)

	header := strings.Join(mods, " ") + " " + c.Name + typeParams(c.TypeParameters)
	if c.SuperClass != nil && !c.SuperClass.Is("java.lang.Object") {
		header += " extends " + c.SuperClass.Display()
	}
	if len(c.Interfaces) > 0 {
		word := " implements "
		if c.IsInterface() {
			word = " extends "
		}
		header += word + joinTypes(c.Interfaces)
	}
	fmt.Fprintf(w, "%s {\n", header)

	for _, f := range c.Fields {
		prefix := memberModifiers(f.Visibility, f.IsStatic, f.IsFinal, false)
		fmt.Fprintf(w, "    %s%s %s;\n", prefix, f.Type.Display(), f.Name)
	}
	for _, m := range c.Methods {
		if m.IsSynthetic {
			continue
		}
		prefix := memberModifiers(m.Visibility, m.IsStatic, m.IsFinal, m.IsAbstract && !c.IsInterface())
		if m.IsDefault {
			prefix += "default "
		}
		if len(m.TypeParameters) > 0 {
			prefix += typeParams(m.TypeParameters) + " "
		}
		var params []string
		for i, p := range m.Parameters {
			t := p.Type.Display()
			if m.IsVarargs && i == len(m.Parameters)-1 && p.Type.IsArray() {
				t = p.Type.Elem.Display() + "..."
			}
			params = append(params, t+" "+p.Name)
		}
		name := m.Name + "(" + strings.Join(params, ", ") + ")"
		if m.IsConstructor() {
			fmt.Fprintf(w, "    %s%s;\n", prefix, strings.Replace(name, "<init>", c.SimpleName, 1))
			continue
		}
		fmt.Fprintf(w, "    %s%s %s;\n", prefix, m.ReturnType.Display(), name)
	}
	for _, mt := range c.MemberTypes {
		fmt.Fprintf(w, "    // member type %s\n", mt)
	}
	fmt.Fprintln(w, "}")
}

func memberModifiers(v java.Visibility, static, final, abstract bool) string {
	var sb strings.Builder
	if v != java.VisibilityPackage && v != "" {
		sb.WriteString(string(v) + " ")
	}
	if static {
		sb.WriteString("static ")
	}
	if abstract {
		sb.WriteString("abstract ")
	}
	if final {
		sb.WriteString("final ")
	}
	return sb.String()
}

func typeParams(tps []java.TypeParameterModel) string {
	if len(tps) == 0 {
		return ""
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name
		if len(tp.Bounds) > 0 {
			names[i] += " extends " + strings.Join(displayAll(tp.Bounds), " & ")
		}
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func joinTypes(ts []*java.Type) string {
	return strings.Join(displayAll(ts), ", ")
}

func displayAll(ts []*java.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Display()
	}
	return out
}
