package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/pkg/chats"
	"github.com/weftlabs/weft/pkg/llm"
)

func RootCommand(app app.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "Compose prompt templates and talk to hosted or local models from the command line.",
		Example: `
weft templates   # List available prompt templates
weft render summarize --var sentences=2 --var text="..."   # Render a template without calling a model
weft ask "What is a goroutine?"   # Ask a one-shot question
weft chat   # Open an interactive chat
weft index add notes.md   # Index a document for similarity search
weft cypher "Which actors played in The Matrix?"   # Answer a question from a graph database
	`,
	}

	rootCmd.PersistentFlags().String("provider", "",
		fmt.Sprintf("Model provider to use. (env: %s)", config.GetEnvWithPrefix(config.ENV_PROVIDER)))
	rootCmd.PersistentFlags().String("model", "",
		fmt.Sprintf("Model to use, depends on the provider. (env: %s)", config.GetEnvWithPrefix(config.ENV_MODEL)))
	rootCmd.PersistentFlags().String("template-dir", "",
		fmt.Sprintf("Directory with user prompt templates. (env: %s)", config.GetEnvWithPrefix(config.ENV_TEMPLATE_DIR)))
	rootCmd.PersistentFlags().Bool("verbose", false,
		fmt.Sprintf("Log intermediate steps to stderr. (env: %s)", config.GetEnvWithPrefix(config.ENV_VERBOSE)))

	viper.BindPFlag(config.ENV_PROVIDER, rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag(config.ENV_MODEL, rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag(config.ENV_TEMPLATE_DIR, rootCmd.PersistentFlags().Lookup("template-dir"))
	viper.BindPFlag(config.ENV_VERBOSE, rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix(config.ENV_PREFIX)
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		templatesCommand(app),
		renderCommand(app),
		askCommand(app),
		chatCommand(app),
		indexCommand(app),
		cypherCommand(app),
		docsCommand(app),
	)

	return rootCmd
}

// validateModel gates commands that call a model.
func validateModel(cmd *cobra.Command, args []string) error {
	provider := viper.GetString(config.ENV_PROVIDER)
	if !slices.Contains(llm.Providers, llm.Provider(provider)) {
		return fmt.Errorf("invalid provider '%s'. Valid providers are: %v", provider, llm.Providers)
	}

	model := viper.GetString(config.ENV_MODEL)
	if model == "" {
		return fmt.Errorf("model must be specified '%s'", model)
	}

	return nil
}

func newClient(app app.App) (llm.Client, error) {
	client, err := app.LLM().NewClient(
		llm.Provider(viper.GetString(config.ENV_PROVIDER)),
		llm.Options{Model: viper.GetString(config.ENV_MODEL)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %v", err)
	}
	return client, nil
}

// parseVars turns repeated key=value pairs into template values.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid template variable '%s', expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// seedMessages builds the opening conversation from the --template flag,
// falling back to the --system flag.
func seedMessages(cmd *cobra.Command, app app.App) ([]chats.Message, error) {
	templateName, err := cmd.Flags().GetString("template")
	if err != nil {
		templateName = ""
	}

	if templateName != "" {
		dir := viper.GetString(config.ENV_TEMPLATE_DIR)
		tpl, err := app.Prompts().Get(dir, templateName)
		if err != nil {
			return nil, err
		}

		pairs, err := cmd.Flags().GetStringArray("var")
		if err != nil {
			pairs = []string{}
		}
		vars, err := parseVars(pairs)
		if err != nil {
			return nil, err
		}

		messages, err := tpl.Format(vars)
		if err != nil {
			return nil, fmt.Errorf("failed to render template: %v", err)
		}
		return messages, nil
	}

	if system, err := cmd.Flags().GetString("system"); err == nil && system != "" {
		return []chats.Message{chats.NewSystemMessage(system)}, nil
	}
	return nil, nil
}
