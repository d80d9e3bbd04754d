package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bitop-dev/chat"
	"github.com/bitop-dev/chat/openai"
)

type cliConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	Temperature *float32          `yaml:"temperature"`
	MaxTokens   *int              `yaml:"max_tokens"`
	Options     map[string]string `yaml:"options"`
}

func loadConfig(path string) (cliConfig, error) {
	// .env is optional; the config file and environment win.
	_ = godotenv.Load()

	cfg := cliConfig{Model: "gpt-4o-mini"}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cliConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cliConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cliConfig{}, fmt.Errorf("no API key: set api_key in the config file or OPENAI_API_KEY")
	}
	return cfg, nil
}

func chatConfig(cfg cliConfig, model string) chat.Config {
	client := openai.NewClient(openai.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	if model == "" {
		model = cfg.Model
	}
	return chat.Config{
		Model:           client.Chat(model),
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		ProviderOptions: cfg.Options,
	}
}

func messagesFromArgs(system string, args []string) []chat.Message {
	var msgs []chat.Message
	if system != "" {
		msgs = append(msgs, chat.System(system))
	}
	msgs = append(msgs, chat.User(strings.Join(args, " ")))
	return msgs
}

func main() {
	var (
		configPath string
		model      string
		system     string
	)

	rootCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an LLM provider from the command line",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model name (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&system, "system", "s", "", "System message")

	sendCmd := &cobra.Command{
		Use:   "send [prompt]",
		Short: "Send a prompt and print the full reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ccfg := chatConfig(cfg, model)

			event := chat.Send(context.Background(), messagesFromArgs(system, args), ccfg)
			switch {
			case event.Err != nil:
				return event.Err
			case event.Message != nil:
				for _, part := range event.Message.Content {
					if t, ok := part.(chat.TextPart); ok {
						fmt.Println(t.Text)
					}
				}
			case len(event.ToolRequest) > 0:
				for _, tc := range event.ToolRequest {
					fmt.Printf("tool call %s: %s(%s)\n", tc.ID, tc.Name, tc.ArgumentsJSON)
				}
			}
			return nil
		},
	}

	streamCmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Send a prompt and print the reply as it streams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ccfg := chatConfig(cfg, model)

			stream := chat.Stream(context.Background(), messagesFromArgs(system, args), ccfg)
			defer stream.Close()

			for {
				events := stream.GetNext()
				if len(events) == 0 {
					break
				}
				for _, ev := range events {
					switch {
					case ev.Err != nil:
						return ev.Err
					case ev.Delta != nil:
						for _, part := range ev.Delta.Content {
							if t, ok := part.(chat.TextPart); ok {
								fmt.Print(t.Text)
							}
						}
					case ev.Finish != nil:
						fmt.Println()
						if ev.Finish.FinishReason != "" {
							fmt.Fprintf(os.Stderr, "finish: %s\n", ev.Finish.FinishReason)
						}
					}
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(streamCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
