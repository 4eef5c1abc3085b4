package commands

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
)

// InteractiveCmd creates the interactive command. The workspace, and with it the
// undo history, lives for the whole session.
func InteractiveCmd(app *AppContext, in io.Reader) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (undo and redo work across commands)",
		Long: `Start an interactive session where you can run multiple commands against one
workspace. Every change is saved as it happens and can be undone until you leave.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunInteractive(app, cmd.Parent(), in)
		},
	}
}

// RunInteractive reads commands line by line and dispatches them to root's subcommands
func RunInteractive(app *AppContext, root *cobra.Command, in io.Reader) error {
	app.Out.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

	commands := make(map[string]*cobra.Command)
	for _, subCmd := range root.Commands() {
		switch subCmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}

	scanner := bufio.NewScanner(in)
	for {
		app.Out.Printf("%s> ", promptMonth(app))

		if !scanner.Scan() {
			break
		}

		parts, err := SplitArgs(scanner.Text())
		if err != nil {
			app.Out.Error("%v", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmdName, cmdArgs := parts[0], parts[1:]

		if cmdName == "exit" || cmdName == "quit" {
			app.Out.Println("Goodbye!")
			return nil
		}
		if cmdName == "help" {
			printInteractiveHelp(app, commands)
			continue
		}

		targetCmd, exists := commands[cmdName]
		if !exists {
			app.Out.Error("Unknown command: %s (type 'help' for available commands)", cmdName)
			continue
		}

		if err := runCommand(targetCmd, cmdArgs); err != nil {
			app.Out.Error("%v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runCommand resets flags from the previous run, then calls RunE directly so the
// root's PersistentPreRunE does not open a second workspace
func runCommand(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}

	if cmd.RunE != nil {
		return cmd.RunE(cmd, args)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, args)
	}
	return nil
}

func promptMonth(app *AppContext) string {
	if app.Workspace == nil {
		return ""
	}
	return fmt.Sprintf("%s w%d", calendar.MonthPrefix(app.Workspace.Month()), app.Workspace.WeekOfMonth())
}

func printInteractiveHelp(app *AppContext, commands map[string]*cobra.Command) {
	app.Out.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		app.Out.Printf("  %-55s %s\n", commands[name].Use, commands[name].Short)
	}

	app.Out.Println("\n  help                                                    Show this help message")
	app.Out.Println("  exit, quit                                              Exit the interactive session")
}

// SplitArgs splits a command line on whitespace, keeping double-quoted text together
func SplitArgs(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuotes, hasToken := false, false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case !inQuotes && (r == ' ' || r == '\t'):
			if hasToken {
				args = append(args, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated quote")
	}
	if hasToken {
		args = append(args, current.String())
	}
	return args, nil
}
