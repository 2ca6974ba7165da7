package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/console"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
)

var (
	runWatch  bool
	runQuiet  bool
	runEvents bool
)

// telemetryBuffer bounds the events kept for --events; older overflow is
// dropped and counted.
const telemetryBuffer = 1024

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a command script against a fresh office",
	Long: `Run a file of shell commands, one per line, against a fresh office.

Blank lines and lines starting with # are skipped. The run stops at the first
line that fails to parse; refused operations are reported and the run goes on.

With --watch, the script is rerun against a new office every time it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := runScript(cmd, path); err != nil {
			return err
		}
		if !runWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchScript(ctx, cmd, path)
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "rerun the script when it changes")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print event notifications")
	runCmd.Flags().BoolVar(&runEvents, "events", false, "print the telemetry event log after the run")
}

func runScript(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	off, err := newOffice()
	if err != nil {
		return err
	}
	c := console.New(off, cmd.OutOrStdout())
	if !runQuiet {
		defer c.Attach()()
	}

	var sink *events.ChannelSink
	if runEvents {
		var cancel func()
		sink, cancel = off.Telemetry(telemetryBuffer)
		defer cancel()
	}

	logger.Debug("running script", zap.String("path", path))
	if err := c.RunScript(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if sink != nil {
		printTelemetry(cmd.OutOrStdout(), sink)
	}
	return nil
}

func printTelemetry(out io.Writer, sink *events.ChannelSink) {
	fmt.Fprintln(out, "--- events")
	for _, e := range sink.Drain() {
		fmt.Fprintf(out, "%s %s", e.Timestamp.Format(time.RFC3339), e.Kind)
		if e.AgentID != 0 {
			fmt.Fprintf(out, " agent=%d", e.AgentID)
		}
		if e.Level != 0 {
			fmt.Fprintf(out, " level=%d", e.Level)
		}
		if e.Code != "" {
			fmt.Fprintf(out, " code=%s", e.Code)
		}
		fmt.Fprintln(out)
	}
	if n := sink.DroppedCount(); n > 0 {
		fmt.Fprintf(out, "(%d events dropped)\n", n)
	}
}

func watchScript(ctx context.Context, cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s, ctrl+c to stop\n", path)
	return console.Watch(ctx, path, func() error {
		fmt.Fprintf(out, "--- %s changed, rerunning\n", path)
		if err := runScript(cmd, path); err != nil {
			// A broken edit should not end the watch.
			fmt.Fprintf(out, "error: %v\n", err)
			logger.Warn("script failed", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}
