package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/console"
)

const shellPrompt = "pixelhq> "

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive command shell",
	Long: `Start an interactive shell over a fresh office.

Type help for the command list. Lines starting with // are cheat codes.
exit or quit leaves the shell.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func runShell(cmd *cobra.Command) error {
	off, err := newOffice()
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()[:8]
	log := logger.With(zap.String("session", sessionID))
	log.Debug("shell started")

	out := cmd.OutOrStdout()
	c := console.New(off, out)
	detach := c.Attach()
	defer detach()

	fmt.Fprintf(out, "pixelhq session %s, type help for commands\n", sessionID)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, shellPrompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if err := c.Exec(line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			log.Debug("command rejected", zap.String("line", line), zap.Error(err))
		}
	}
	fmt.Fprintln(out)
	log.Debug("shell closed")
	return scanner.Err()
}
