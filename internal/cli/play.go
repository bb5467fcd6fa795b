package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"
)

type moveFrame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play [session-id]",
		Short: "Open a realtime connection and relay moves",
		Long: `Open a realtime connection to the server.

If a session id is given, join that session once connected. Each line read
from stdin is sent as a move. Enter "quit" or press Ctrl-C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sessionID string
			if len(args) == 1 {
				sessionID = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return play(ctx, sessionID, cmd.InOrStdin(), NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}
}

// play joins sessionID, if set, only after the connection is bound so the
// opening game_state reaches this player
func play(ctx context.Context, sessionID string, in io.Reader, out *Output) error {
	conn, err := client.Dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.CloseNow() }()

	var greeting Event
	if err := wsjson.Read(ctx, conn, &greeting); err != nil {
		return fmt.Errorf("connection closed: %w", err)
	}
	out.Print(greeting)

	if sessionID != "" {
		var session Session
		if err := client.Post(sessionPath(sessionID, "join"), nil, &session); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return err
		}
		out.Print(session)
	}

	readErr := make(chan error, 1)
	go func() {
		for {
			var event Event
			if err := wsjson.Read(ctx, conn, &event); err != nil {
				readErr <- err
				return
			}
			out.Print(event)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case err := <-readErr:
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("connection closed: %w", err)
		case line, ok := <-lines:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "quit" {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			if err := wsjson.Write(ctx, conn, moveFrame{Event: "move", Data: line}); err != nil {
				return fmt.Errorf("failed to send move: %w", err)
			}
		}
	}
}
