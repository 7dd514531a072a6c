package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/pkg/graph"
)

func cypherCommand(app app.App) *cobra.Command {
	cypherCmd := &cobra.Command{
		Use:   "cypher <question>",
		Short: "Answer a question from a Neo4j graph database.",
		Long: `Generates a Cypher statement for the question, runs it against the
configured database and answers from the results. Connection settings come
from NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD and optionally NEO4J_DATABASE.`,
		Args: cobra.ExactArgs(1),
		Example: `
weft cypher "Which actors played in The Matrix?"
weft cypher --show-cypher "How many movies were released after 2000?"
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCypher(cmd, args, app)
		},
		PreRunE: validateModel,
	}

	cypherCmd.Flags().SortFlags = false

	cypherCmd.Flags().Int("top-k", 10, "Maximum number of query result rows given to the model.")
	cypherCmd.Flags().Bool("show-cypher", false, "Print the generated Cypher statement before the answer.")

	return cypherCmd
}

func runCypher(cmd *cobra.Command, args []string, app app.App) error {
	cfg, err := graph.ConfigFromEnv()
	if err != nil {
		return err
	}

	conn, err := app.Graph().Connect(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to graph database: %v", err)
	}
	defer conn.Close(cmd.Context())

	client, err := newClient(app)
	if err != nil {
		return err
	}

	topK, err := cmd.Flags().GetInt("top-k")
	if err != nil {
		topK = 10
	}

	chainOpts := []graph.ChainOption{graph.WithTopK(topK)}
	if viper.GetBool(config.ENV_VERBOSE) {
		logger, _ := zap.NewDevelopment()
		chainOpts = append(chainOpts, graph.WithLogger(logger.Sugar()))
	}

	chain := graph.NewCypherChain(client, conn, chainOpts...)
	result, err := chain.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if showCypher, err := cmd.Flags().GetBool("show-cypher"); err == nil && showCypher && result.Cypher != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "cypher: %s\n\n", result.Cypher)
	}

	formattedRes, err := app.Format().FormatMarkdown(result.Answer)
	if err != nil {
		return fmt.Errorf("failed to format response: %v", err)
	}
	cmd.OutOrStdout().Write([]byte(formattedRes))
	return nil
}
