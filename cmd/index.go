package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/pkg/llm"
	"github.com/weftlabs/weft/pkg/vector"
)

func indexCommand(app app.App) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Index documents and search them by meaning.",
		Example: `
weft index add notes.md docs/*.md
weft index search "how do deadlines propagate"
weft index rm 6a1f...
weft index stats
	`,
	}

	indexCmd.PersistentFlags().String("db", config.DEFAULT_INDEX_PATH,
		fmt.Sprintf("Path to the index database. (env: %s)", config.GetEnvWithPrefix(config.ENV_INDEX_PATH)))
	indexCmd.PersistentFlags().String("embed-model", config.DEFAULT_EMBED_MODEL,
		fmt.Sprintf("Embedding model to use. (env: %s)", config.GetEnvWithPrefix(config.ENV_EMBED_MODEL)))
	indexCmd.PersistentFlags().Int("dims", config.DEFAULT_EMBED_DIMS,
		fmt.Sprintf("Embedding width, must match the embedding model. (env: %s)", config.GetEnvWithPrefix(config.ENV_EMBED_DIMS)))

	viper.BindPFlag(config.ENV_INDEX_PATH, indexCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag(config.ENV_EMBED_MODEL, indexCmd.PersistentFlags().Lookup("embed-model"))
	viper.BindPFlag(config.ENV_EMBED_DIMS, indexCmd.PersistentFlags().Lookup("dims"))

	indexCmd.AddCommand(
		indexAddCommand(app),
		indexSearchCommand(app),
		indexRemoveCommand(app),
		indexStatsCommand(app),
	)

	return indexCmd
}

// validateEmbedder gates commands that embed text.
func validateEmbedder(cmd *cobra.Command, args []string) error {
	provider := viper.GetString(config.ENV_PROVIDER)
	if !slices.Contains(llm.Providers, llm.Provider(provider)) {
		return fmt.Errorf("invalid provider '%s'. Valid providers are: %v", provider, llm.Providers)
	}
	return nil
}

// openStore opens the index with an embedder for the configured provider.
func openStore(app app.App) (app.VectorStore, error) {
	embedder, err := app.LLM().NewEmbedder(
		llm.Provider(viper.GetString(config.ENV_PROVIDER)),
		llm.Options{Model: viper.GetString(config.ENV_EMBED_MODEL)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %v", err)
	}

	store, err := app.Vector().OpenStore(
		viper.GetString(config.ENV_INDEX_PATH),
		viper.GetInt(config.ENV_EMBED_DIMS),
		embedder,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %v", err)
	}
	return store, nil
}

func indexAddCommand(app app.App) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "Chunk files and add them to the index.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexAdd(cmd, args, app)
		},
		PreRunE: validateEmbedder,
	}

	addCmd.Flags().Int("chunk-tokens", config.DEFAULT_CHUNK_TOKENS, "Token budget per chunk.")

	return addCmd
}

func runIndexAdd(cmd *cobra.Command, args []string, app app.App) error {
	chunkTokens, err := cmd.Flags().GetInt("chunk-tokens")
	if err != nil {
		chunkTokens = config.DEFAULT_CHUNK_TOKENS
	}

	var docs []vector.Document
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read '%s': %v", path, err)
		}
		for i, chunk := range vector.Chunk(string(data), chunkTokens) {
			docs = append(docs, vector.Document{
				Text: chunk,
				Metadata: map[string]string{
					"source": path,
					"chunk":  strconv.Itoa(i),
				},
			})
		}
	}
	if len(docs) == 0 {
		return fmt.Errorf("no content to index")
	}

	store, err := openStore(app)
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := store.Add(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("failed to index documents: %v", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d chunks\n", len(ids))
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func indexSearchCommand(app app.App) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index by meaning.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexSearch(cmd, args, app)
		},
		PreRunE: validateEmbedder,
	}

	searchCmd.Flags().Int("limit", 10, "Maximum number of results.")
	searchCmd.Flags().Float32("threshold", 0, "Minimum similarity, between 0 and 1.")

	return searchCmd
}

func runIndexSearch(cmd *cobra.Command, args []string, app app.App) error {
	store, err := openStore(app)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []vector.SearchOption
	if cmd.Flags().Changed("limit") {
		limit, err := cmd.Flags().GetInt("limit")
		if err == nil {
			opts = append(opts, vector.WithLimit(limit))
		}
	}
	if cmd.Flags().Changed("threshold") {
		threshold, err := cmd.Flags().GetFloat32("threshold")
		if err == nil {
			opts = append(opts, vector.WithThreshold(threshold))
		}
	}

	results, err := store.Search(cmd.Context(), args[0], opts...)
	if err != nil {
		return fmt.Errorf("search failed: %v", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no results")
		return nil
	}
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%.3f  %s  %s\n", res.Similarity, res.ID, res.Text)
	}
	return nil
}

func indexRemoveCommand(app app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove documents from the index.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexRemove(cmd, args, app)
		},
	}
}

func runIndexRemove(cmd *cobra.Command, args []string, app app.App) error {
	// No embedder needed to delete rows.
	store, err := app.Vector().OpenStore(
		viper.GetString(config.ENV_INDEX_PATH),
		viper.GetInt(config.ENV_EMBED_DIMS),
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to open index: %v", err)
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args); err != nil {
		return fmt.Errorf("failed to remove documents: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d documents\n", len(args))
	return nil
}

func indexStatsCommand(app app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many documents are indexed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexStats(cmd, args, app)
		},
	}
}

func runIndexStats(cmd *cobra.Command, args []string, app app.App) error {
	store, err := app.Vector().OpenStore(
		viper.GetString(config.ENV_INDEX_PATH),
		viper.GetInt(config.ENV_EMBED_DIMS),
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to open index: %v", err)
	}
	defer store.Close()

	count, err := store.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count documents: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d documents indexed in %s\n",
		count, viper.GetString(config.ENV_INDEX_PATH))
	return nil
}
