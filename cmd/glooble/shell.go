// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/glooble/internal/backend"
	"github.com/pdiddy/glooble/internal/session"
)

const shellHelp = `Type a query to search. Commands:
  :page N     go to page N
  :next       next page
  :prev       previous page
  :original   search for the last query as typed
  :clear      reset the search
  :quit       exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search session",
	Long: `Shell keeps one search session open. Each line is a new query unless it
starts with a colon command such as :next or :page 3.

` + shellHelp,
	Args: cobra.NoArgs,
	RunE: runShellCmd,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShellCmd(cmd *cobra.Command, args []string) error {
	cfg, err := clientConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	c := session.New(backend.New(cfg), cfg, logger)
	return runShell(ctx, c, cmd.InOrStdin(), cmd.OutOrStdout())
}

// runShell reads lines from in until EOF, :quit, or ctx is done.
func runShell(ctx context.Context, c *session.Controller, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, shellHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		quit, err := shellLine(ctx, c, strings.TrimSpace(scanner.Text()))
		if quit {
			return nil
		}
		if err != nil && !errors.Is(err, backend.ErrTransport) {
			// Transport failures already show in the session view.
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		session.FormatTable(c.View(), out)
	}
}

func shellLine(ctx context.Context, c *session.Controller, line string) (quit bool, err error) {
	if !strings.HasPrefix(line, ":") {
		return false, c.SubmitQuery(ctx, line, false)
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":next":
		return false, c.ChangePage(ctx, c.Session().Page+1)
	case ":prev":
		return false, c.ChangePage(ctx, c.Session().Page-1)
	case ":page":
		if len(fields) != 2 {
			return false, errors.New("usage: :page N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("invalid page %q", fields[1])
		}
		return false, c.ChangePage(ctx, n)
	case ":original":
		return false, c.UseOriginalQuery(ctx)
	case ":clear":
		return false, c.SubmitQuery(ctx, "", false)
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}
