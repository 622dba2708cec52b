package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/engine/expander"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Plan output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	File            string
	Format          string
	LegacyExpansion bool
}

// PlanDocument is the machine-readable form of an execution plan.
type PlanDocument struct {
	Roots   []string     `yaml:"roots"`
	Targets []PlanTarget `yaml:"targets"`
}

// PlanTarget is one planned target with its commands expanded.
type PlanTarget struct {
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"dependencies,omitempty"`
	Commands     []string `yaml:"commands,omitempty"`
}

// Plan prints the targets that a run would execute, in order, without running anything.
func (a *App) Plan(_ context.Context, targetNames []string, opts PlanOptions) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	script, plan, err := a.plan(settings, opts.File, targetNames)
	if err != nil {
		return err
	}

	expansion := settings.Expansion
	if opts.LegacyExpansion {
		expansion = domain.ExpansionLegacy
	}
	exp := expander.New(a.globber, expansion)

	doc := PlanDocument{Roots: domain.Strings(plan.Roots)}
	for _, name := range plan.Order {
		target, _ := script.TargetByName(name)
		entry := PlanTarget{
			Name:         target.Name.String(),
			Dependencies: domain.Strings(target.Dependencies),
		}
		for _, raw := range target.Commands {
			entry.Commands = append(entry.Commands, exp.Expand(raw, script))
		}
		doc.Targets = append(doc.Targets, entry)
	}

	switch opts.Format {
	case "", FormatText:
		return writePlanText(a.stdout, doc)
	case FormatYAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return zerr.Wrap(err, "failed to encode plan")
		}
		return enc.Close()
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownPlanFormat, "cannot render plan"), "format", opts.Format)
	}
}

func writePlanText(w io.Writer, doc PlanDocument) error {
	var sb strings.Builder
	for i, t := range doc.Targets {
		fmt.Fprintf(&sb, "%d. %s", i+1, t.Name)
		if len(t.Dependencies) > 0 {
			fmt.Fprintf(&sb, " (after %s)", strings.Join(t.Dependencies, ", "))
		}
		sb.WriteByte('\n')
		for _, cmd := range t.Commands {
			fmt.Fprintf(&sb, "     $ %s\n", cmd)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpOptions configuration for the Dump method.
type DumpOptions struct {
	File string
}

// Dump prints the parsed variables and targets of the script, unexpanded, in
// declaration order.
func (a *App) Dump(_ context.Context, opts DumpOptions) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	script, err := a.loadScript(settings, opts.File)
	if err != nil {
		return err
	}

	_, err = io.WriteString(a.stdout, FormatScript(script))
	return err
}

// FormatScript renders a script back into Bmakefile syntax.
func FormatScript(script *domain.Script) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", script.Path())

	vars := script.Variables()
	if len(vars) > 0 {
		sb.WriteString("\n# variables\n")
		for _, v := range vars {
			fmt.Fprintf(&sb, "%s = %s\n", v.Name, v.Value)
		}
	}

	targets := script.Targets()
	if len(targets) > 0 {
		sb.WriteString("\n# targets\n")
		for _, t := range targets {
			sb.WriteString(t.Name.String() + ":")
			for _, dep := range t.Dependencies {
				sb.WriteString(" " + dep.String())
			}
			sb.WriteByte('\n')
			for _, cmd := range t.Commands {
				sb.WriteString("    " + cmd + "\n")
			}
		}
	}
	return sb.String()
}
