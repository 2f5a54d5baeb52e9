package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles - bone theme
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BoneWhite).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(GumPink).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(GumPink).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(BoneWhite).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(TongueRed).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(MutedSlate).
				Italic(true)
)

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return kong.HelpPrinter(func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(appTitle))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(appDescription))
		sb.WriteString("\n")

		node := ctx.Selected()

		// Usage
		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		if node == nil {
			sb.WriteString(fmt.Sprintf("%s <command> [flags]", ctx.Model.Name))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s", ctx.Model.Name, node.Summary()))
			if node.Help != "" {
				sb.WriteString("\n\n  ")
				sb.WriteString(node.Help)
			}
		}
		sb.WriteString("\n")

		// Commands section, top level only
		if node == nil {
			commands := getCommands(ctx.Model.Node)
			if len(commands) > 0 {
				sb.WriteString("\n")
				sb.WriteString(helpSectionStyle.Render("Commands:"))
				sb.WriteString("\n")
				for _, cmd := range commands {
					sb.WriteString("  ")
					sb.WriteString(helpArgStyle.Render(fmt.Sprintf("%-10s", cmd.name)))
					sb.WriteString("  ")
					sb.WriteString(cmd.help)
					sb.WriteString("\n")
				}
			}
		}

		// Arguments section
		if node != nil {
			args := getArguments(node)
			if len(args) > 0 {
				sb.WriteString("\n")
				sb.WriteString(helpSectionStyle.Render("Arguments:"))
				sb.WriteString("\n")
				for _, arg := range args {
					sb.WriteString("  ")
					sb.WriteString(helpArgStyle.Render(arg.name))
					if arg.help != "" {
						sb.WriteString("  ")
						sb.WriteString(arg.help)
					}
					sb.WriteString("\n")
				}
			}
		}

		// Flags section
		flags := getFlags(ctx.Model.Node, node)
		if len(flags) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Flags:"))
			sb.WriteString("\n")
			for _, flag := range flags {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(flag.flags))
				if flag.help != "" {
					sb.WriteString("  ")
					sb.WriteString(flag.help)
				}
				if flag.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + flag.defaultVal + ")"))
				}
				if flag.env != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("($" + flag.env + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	})
}

type command struct {
	name string
	help string
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
	env        string
}

func getCommands(root *kong.Node) []command {
	var commands []command
	for _, child := range root.Children {
		if child.Hidden {
			continue
		}
		commands = append(commands, command{name: child.Name, help: child.Help})
	}
	return commands
}

func getArguments(node *kong.Node) []argument {
	var args []argument
	for _, arg := range node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

// getFlags lists the global flags followed by those of the selected command.
func getFlags(root, selected *kong.Node) []flag {
	var flags []flag

	// Always include help flag
	flags = append(flags, flag{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	})

	nodes := []*kong.Node{root}
	if selected != nil && selected != root {
		nodes = append(nodes, selected)
	}

	for _, node := range nodes {
		for _, f := range node.Flags {
			if f.Name == "help" || f.Hidden {
				continue
			}

			flagStr := ""
			if f.Short != 0 {
				flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			} else {
				flagStr = fmt.Sprintf("--%s", f.Name)
			}

			if !f.IsBool() && f.PlaceHolder != "" {
				flagStr += "=" + strings.ToUpper(f.PlaceHolder)
			}

			// Only show default if it's a meaningful value (not empty, not type placeholder)
			defaultVal := ""
			if f.HasDefault && !f.IsBool() {
				val := f.Default
				if val != "" && val != "STRING" && val != "BOOL" {
					defaultVal = val
				}
			}

			env := ""
			if len(f.Envs) > 0 {
				env = f.Envs[0]
			}

			flags = append(flags, flag{
				flags:      flagStr,
				help:       f.Help,
				defaultVal: defaultVal,
				env:        env,
			})
		}
	}

	return flags
}
