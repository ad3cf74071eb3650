package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"exposure-debugpanel/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(loadedCfg)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runInteractiveShell(rt, prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "debug> ", "shell prompt")
	return cmd
}

func runInteractiveShell(rt *runtime, prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "debugpanel-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	rt.terminator.SetBeforeExit(func() { _ = rl.Close() })
	defer rt.terminator.SetBeforeExit(nil)

	out := rl.Stdout()
	if err := rt.printReports(out); err != nil {
		return err
	}

	sessionVerbosity := verbosity
	fmt.Fprint(out, renderMenu(rt.panel.Labels()))
	fmt.Fprintln(out, "Type a number or part of a label. 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		// Only log takes arguments; anything longer is a label query.
		command := tokens[0]
		if len(tokens) > 1 && command != "log" {
			command = ""
		}
		switch command {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help":
			printShellHelp(out)
		case "menu", "ls":
			fmt.Fprint(out, renderMenu(rt.panel.Labels()))
		case "state":
			data, err := json.MarshalIndent(rt.store.GetState(), "", "  ")
			if err != nil {
				fmt.Fprintf(out, "state: %v\n", err)
				continue
			}
			fmt.Fprintln(out, string(data))
		case "log":
			if err := handleShellLog(out, tokens[1:], &sessionVerbosity); err != nil {
				fmt.Fprintf(out, "log: %v\n", err)
			}
		default:
			selectFromShell(rt, out, strings.Join(tokens, " "))
		}
	}
}

func selectFromShell(rt *runtime, out io.Writer, query string) {
	index, err := rt.panel.Resolve(query)
	if err != nil {
		fmt.Fprintf(out, "%v\n", err)
		return
	}
	item, err := rt.panel.Select(index)
	if err != nil {
		fmt.Fprintf(out, "command error: %v\n", err)
		return
	}
	fmt.Fprintln(out, dimStyle.Render("→ "+strconv.Itoa(index+1)+". "+item.Label))
	rt.store.Wait()
}

func handleShellLog(out io.Writer, args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  3                           # select the third item
  state explorer              # select by (part of) its label
  menu                        # print the menu again
  state                       # print the application state
  log -vv                     # more logging
  log --show                  # current log level
  exit / quit                 # leave the shell`)
}
