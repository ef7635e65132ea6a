package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/ecs-bridge/compiler"
)

func newInspectCmd(cfg *Config) *cobra.Command {
	var (
		asJSON      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show tags and record layouts of a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd.Flags(), "schema", &cfg.Schema)

			m, err := loadModel(cfg.Schema)
			if err != nil {
				return err
			}
			c, err := compiler.Compile(m)
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				out, err := c.Manifest().JSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			case interactive:
				p := tea.NewProgram(newInspectModel(c), tea.WithAltScreen())
				_, err := p.Run()
				return err
			default:
				return writeReport(cmd.OutOrStdout(), c.Manifest(), isTerminal(cmd.OutOrStdout()))
			}
		},
	}

	flags := cmd.Flags()
	flags.String("schema", "", "Schema YAML file (default: the example project)")
	flags.BoolVar(&asJSON, "json", false, "Print the manifest as JSON")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Browse the schema in a terminal UI")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type palette struct {
	title lipgloss.Style
	name  lipgloss.Style
	typ   lipgloss.Style
	dim   lipgloss.Style
}

func newPalette(styled bool) palette {
	if !styled {
		plain := lipgloss.NewStyle()
		return palette{title: plain, name: plain, typ: plain, dim: plain}
	}
	return palette{title: titleStyle, name: nameStyle, typ: typeStyle, dim: helpStyle}
}

// writeReport prints every category with its members in tag order.
func writeReport(w io.Writer, man *compiler.Manifest, styled bool) error {
	p := newPalette(styled)
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", p.title.Render("schema"), man.Fingerprint)
	for _, cat := range man.Categories {
		fmt.Fprintf(&b, "\n%s %s  record %d B, payload @%d (%d B), align %d\n",
			p.title.Render(cat.Name), p.typ.Render(cat.Union),
			cat.RecordSize, cat.PayloadOffset, cat.PayloadSize, cat.Align)
		if len(cat.Members) == 0 {
			b.WriteString(p.dim.Render("  (none)") + "\n")
		}
		for _, mem := range cat.Members {
			b.WriteString(memberLine(p, mem) + "\n")
		}
	}

	b.WriteString("\n" + p.title.Render("prefabs") + "\n")
	if len(man.Prefabs) == 0 {
		b.WriteString(p.dim.Render("  (none)") + "\n")
	}
	for _, pf := range man.Prefabs {
		fmt.Fprintf(&b, "  %3d  %s  %s\n", pf.RefID, p.name.Render(pf.Name), strings.Join(pf.Variants, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func memberLine(p palette, mem compiler.MemberManifest) string {
	fields := make([]string, len(mem.Fields))
	for i, f := range mem.Fields {
		fields[i] = fmt.Sprintf("%s:%s@%d", f.Name, p.typ.Render(f.Type), f.Offset)
	}
	op := ""
	if mem.Op != "" {
		op = " " + p.dim.Render(mem.Op)
	}
	return fmt.Sprintf("  %3d  %s%s  %d B  %s", mem.Tag, p.name.Render(mem.Name), op, mem.Size, strings.Join(fields, " "))
}
