package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/console"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/tui"
)

var officeSeed string

var officeCmd = &cobra.Command{
	Use:   "office",
	Short: "Open the live office dashboard",
	Long: `Open a full-screen dashboard that ticks the office in real time.

Type cheat codes straight into the dashboard, for example iddqd or
//pixelhq:turbo. Esc or Ctrl+C quits.

--seed runs a command script first, so the dashboard opens on a staffed office.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		off, err := newOffice()
		if err != nil {
			return err
		}

		if officeSeed != "" {
			f, err := os.Open(officeSeed)
			if err != nil {
				return fmt.Errorf("opening seed script: %w", err)
			}
			err = console.New(off, io.Discard).RunScript(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", officeSeed, err)
			}
		}

		app := tui.New(off, tui.WithTickRate(cfg.Office.TickRate))
		defer app.Close()

		p := tea.NewProgram(app,
			tea.WithAltScreen(),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		_, err = p.Run()
		return err
	},
}

func init() {
	officeCmd.Flags().StringVar(&officeSeed, "seed", "", "command script to run before opening")
}
