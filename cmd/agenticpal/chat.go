package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Init(cfg.Environment)

		ctx := cmd.Context()
		rt, err := buildRuntime(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Println("agenticpal chat. Type your message, or /quit to exit.")

		var threadID string
		awaiting := false
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}

			var (
				result *agenticpal.TurnResult
				err    error
			)
			if awaiting {
				result, err = rt.agent.SubmitConfirmation(ctx, threadID, line)
				if agenticpal.IsNoPendingTurn(err) {
					awaiting = false
					result, err = rt.agent.HandleMessage(ctx, threadID, line, recentHistory(ctx, rt, threadID))
				}
			} else {
				result, err = rt.agent.HandleMessage(ctx, threadID, line, recentHistory(ctx, rt, threadID))
			}
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}

			threadID = result.ThreadID
			awaiting = result.AwaitingConfirmation
			recordTurn(ctx, rt.history, threadID, line, result.Response)
			fmt.Println(result.Response)
		}
		return scanner.Err()
	},
}

func recentHistory(ctx context.Context, rt *runtime, threadID string) []agenticpal.HistoryTurn {
	if threadID == "" {
		return nil
	}
	turns, err := rt.history.Recent(ctx, threadID, 0)
	if err != nil {
		logger.Warn().Err(err).Str("thread_id", threadID).Msg("could not load history")
		return nil
	}
	return turns
}
