package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfreitas/agentchat/internal/agent"
	"github.com/mfreitas/agentchat/internal/config"
	"github.com/mfreitas/agentchat/internal/llm"
	"github.com/mfreitas/agentchat/internal/telemetry"
)

func newChatCmd() *cobra.Command {
	var (
		model        string
		provider     string
		name         string
		instructions string
		capacity     int
		input        string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an agent",
		Long: `Create an agent and chat with it. With --input a single message is
sent and the reply printed; without it an interactive session starts on
stdin (/clear resets the history, /quit exits).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			level, _ := cfg.SlogLevel()
			if verbose {
				level = slog.LevelDebug
			}
			logger := telemetry.NewLogger(os.Stderr, level)

			if model == "" {
				model = cfg.DefaultModel
			}
			if capacity == 0 {
				capacity = cfg.HistoryCapacity
			}

			ag, err := agent.New(agent.Config{
				Name:            name,
				Instructions:    instructions,
				Model:           model,
				Provider:        provider,
				HistoryCapacity: capacity,
			})
			if err != nil {
				return err
			}

			registry := llm.NewRegistry(cfg.RegistryConfig())
			orch := agent.NewOrchestrator(registry, agent.WithLogger(logger))

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if input != "" {
				reply, err := orch.Send(ctx, ag, input)
				if err != nil {
					return err
				}
				fmt.Println(reply)
				return nil
			}

			return runInteractive(ctx, orch, ag)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model identifier (e.g. gpt-4, claude-sonnet-4-20250514, phi4-mini:latest)")
	cmd.Flags().StringVar(&provider, "provider", "", "Force a provider: openai, anthropic, ollama/local")
	cmd.Flags().StringVar(&name, "name", "assistant", "Agent name")
	cmd.Flags().StringVar(&instructions, "instructions", "You are a helpful assistant.", "System prompt")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "History capacity (default from config)")
	cmd.Flags().StringVar(&input, "input", "", "One-shot message; omit for interactive mode")

	return cmd
}

func runInteractive(ctx context.Context, orch *agent.Orchestrator, ag *agent.Agent) error {
	fmt.Printf("Chatting with %s (%s via %s). /clear resets history, /quit exits.\n",
		ag.Name(), ag.Model(), ag.Provider())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			ag.ClearHistory()
			fmt.Println("history cleared")
			continue
		}

		reply, err := orch.Send(ctx, ag, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}
