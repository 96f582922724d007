package commands

import (
	"bufio"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session that keeps requests in sync while it runs",
		Long: `Start an interactive session where you can run multiple commands against a
collection that is refreshed in the background. The session will keep running until
you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.Out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(app.Out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			if err := app.startPolling(); err != nil {
				return err
			}
			printSyncStatus(app.Out, app.Controller.Status())

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "watch" &&
					subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(app.In)

			for {
				fmt.Fprintf(app.Out, "%s> ", promptPrefix(app))

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				// Parse command (respecting quotes)
				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Fprintf(app.Out, "❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]
				cmdArgs := parts[1:]

				switch cmdName {
				case "exit", "quit":
					fmt.Fprintln(app.Out, "👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(app, commands)
					continue
				case "as":
					switchIdentity(app, cmdArgs)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(app.Out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					if sv, ok := flag.Value.(pflag.SliceValue); ok {
						sv.Replace(nil)
						return
					}
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Fprintf(app.Out, "❌ Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				if targetCmd.Args != nil {
					if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
						fmt.Fprintf(app.Out, "❌ Error: %v\n\n", err)
						continue
					}
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Fprintf(app.Out, "❌ Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func promptPrefix(app *AppContext) string {
	if app.Name == "" {
		return roleFlag(app.Role)
	}
	return roleFlag(app.Role) + ":" + app.Name
}

// switchIdentity handles "as <role> [name]" inside a session
func switchIdentity(app *AppContext, args []string) {
	if len(args) == 0 || len(args) > 2 {
		fmt.Fprintln(app.Out, "❌ Usage: as <homeroom|instructor> [name]")
		fmt.Fprintln(app.Out)
		return
	}

	role, ok := model.ParseRole(args[0])
	if !ok {
		fmt.Fprintf(app.Out, "❌ Unknown role: %s\n\n", args[0])
		return
	}

	app.Role = role
	if len(args) == 2 {
		app.Name = args[1]
		if err := app.Store.SaveLastName(app.Ctx, role, args[1]); err != nil {
			app.Logger.Warn("Failed to remember name", zap.Error(err))
		}
	} else {
		app.Name = app.Store.LastName(app.Ctx, role)
	}

	fmt.Fprintf(app.Out, "Now acting as %s\n\n", promptPrefix(app))
}

func printInteractiveHelp(app *AppContext, commands map[string]*cobra.Command) {
	fmt.Fprintln(app.Out, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(app.Out, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(app.Out, "\n  as <role> [name]               Switch role and name for this session")
	fmt.Fprintln(app.Out, "  help                           Show this help message")
	fmt.Fprintln(app.Out, "  exit, quit                     Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
