package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/internal/ui"
	"github.com/weftlabs/weft/pkg/chats"
	"github.com/weftlabs/weft/pkg/llm"
)

func chatCommand(app app.App) *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive chat with a model.",
		Args:  cobra.NoArgs,
		Example: `
weft chat
weft chat -s "You are a terse code reviewer."
weft chat --template chat --var input="Hello there"
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, args, app)
		},
		PreRunE: validateModel,
	}

	chatCmd.Flags().SortFlags = false

	chatCmd.Flags().StringP("system", "s", "", "System prompt for the conversation. Ignored when --template is set.")
	chatCmd.Flags().StringP("template", "t", "", "Prompt template to seed the conversation from.")
	chatCmd.Flags().StringArray("var", []string{}, "Template variable as key=value, repeatable.")
	chatCmd.Flags().Float64("temperature", 0, "Sampling temperature.")
	chatCmd.Flags().Float64("top-p", 0, "Nucleus sampling probability mass.")
	chatCmd.Flags().Int64("max-tokens", 0, "Maximum number of tokens to generate.")
	chatCmd.Flags().Int64("seed", 0, "Seed for reproducible sampling, when the provider supports it.")

	return chatCmd
}

func runChat(cmd *cobra.Command, args []string, app app.App) error {
	messages, err := seedMessages(cmd, app)
	if err != nil {
		return err
	}

	client, err := newClient(app)
	if err != nil {
		return err
	}

	callOpts := callOptionsFromFlags(cmd)

	title := fmt.Sprintf("weft chat (%s/%s)",
		viper.GetString(config.ENV_PROVIDER), viper.GetString(config.ENV_MODEL))

	TUIModel := app.TUI().InitialModel(ui.InitialModelOptions{
		Title:          title,
		Messages:       messages,
		GetBotResponse: makeLLMBotResponder(client, cmd.Context(), callOpts...),
	})
	if _, err := app.TUI().Run(TUIModel); err != nil {
		return fmt.Errorf("error running interactive mode: %v", err)
	}
	return nil
}

func makeLLMBotResponder(client llm.Client, ctx context.Context, opts ...llm.CallOption) func([]chats.Message) tea.Cmd {
	return func(messages []chats.Message) tea.Cmd {
		return func() tea.Msg {
			aiRes, err := client.Call(ctx, messages, opts...)

			if err != nil {
				return chats.Message{
					Role:    chats.Assistant,
					Content: fmt.Sprintf("Failed to generate response: %v", err.Error()),
				}
			}

			return chats.Message{
				Role:    chats.Assistant,
				Content: aiRes.Content,
			}
		}
	}
}
