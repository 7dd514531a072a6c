package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/weftlabs/weft/pkg/llm"
	"github.com/weftlabs/weft/pkg/prompt"
)

// Runner is the part of Graph the cypher chain depends on.
type Runner interface {
	Query(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
	Schema(ctx context.Context) (string, error)
}

const cypherSystem = `Task: generate a Cypher statement to query a graph database.
Instructions:
Use only the node labels, relationship types and property keys listed in the schema.
Do not use anything that is not in the schema.
Return only the Cypher statement, with no explanation and no apologies.
If the question cannot be answered with the schema, return nothing.

Schema:
{schema}`

const answerSystem = `You answer questions using the results of a database query.
The results below are authoritative: use them as-is and do not correct them
from your own knowledge. If the results are empty, say you don't know.

Results:
{context}`

var (
	cypherPrompt = prompt.NewChatTemplate(
		prompt.NewSystem(cypherSystem),
		prompt.NewUser("{question}"),
	)
	answerPrompt = prompt.NewChatTemplate(
		prompt.NewSystem(answerSystem),
		prompt.NewUser("{question}"),
	)
)

// DontKnowAnswer is returned when the model produces no query or the query
// yields nothing to answer from.
const DontKnowAnswer = "I don't know."

const defaultTopK = 10

// CypherResult carries the intermediate steps along with the final answer.
type CypherResult struct {
	Cypher  string
	Records []map[string]any
	Answer  string
}

// CypherChain answers natural-language questions over a graph: it generates
// a Cypher query from the schema, runs it, and phrases the records as an
// answer.
type CypherChain struct {
	client llm.Client
	graph  Runner
	topK   int
	logger *zap.SugaredLogger
}

// ChainOption adjusts a CypherChain.
type ChainOption func(*CypherChain)

// WithTopK caps how many records are passed to the answering model.
func WithTopK(k int) ChainOption {
	return func(c *CypherChain) { c.topK = k }
}

// WithLogger attaches a logger for the chain's intermediate steps.
func WithLogger(logger *zap.SugaredLogger) ChainOption {
	return func(c *CypherChain) { c.logger = logger }
}

// NewCypherChain builds a chain over the given model and graph.
func NewCypherChain(client llm.Client, graph Runner, opts ...ChainOption) *CypherChain {
	chain := &CypherChain{
		client: client,
		graph:  graph,
		topK:   defaultTopK,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(chain)
	}
	if chain.topK <= 0 {
		chain.topK = defaultTopK
	}
	return chain
}

// Run answers question against the graph.
func (c *CypherChain) Run(ctx context.Context, question string) (*CypherResult, error) {
	schema, err := c.graph.Schema(ctx)
	if err != nil {
		return nil, err
	}

	genMessages, err := cypherPrompt.Format(map[string]any{
		"schema":   schema,
		"question": question,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: failed to build cypher prompt: %w", err)
	}

	generated, err := c.client.Call(ctx, genMessages)
	if err != nil {
		return nil, fmt.Errorf("graph: cypher generation failed: %w", err)
	}

	cypher := extractCypher(generated.Content)
	c.logger.Debugw("generated cypher", "cypher", cypher)
	if cypher == "" {
		return &CypherResult{Answer: DontKnowAnswer}, nil
	}

	records, err := c.graph.Query(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	if len(records) > c.topK {
		records = records[:c.topK]
	}

	answerMessages, err := answerPrompt.Format(map[string]any{
		"context":  formatRecords(records),
		"question": question,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: failed to build answer prompt: %w", err)
	}

	answer, err := c.client.Call(ctx, answerMessages)
	if err != nil {
		return nil, fmt.Errorf("graph: answer generation failed: %w", err)
	}

	return &CypherResult{
		Cypher:  cypher,
		Records: records,
		Answer:  strings.TrimSpace(answer.Content),
	}, nil
}

// extractCypher pulls the statement out of a model response, stripping
// markdown fences and a leading language tag.
func extractCypher(content string) string {
	content = strings.TrimSpace(content)

	if start := strings.Index(content, "```"); start >= 0 {
		content = content[start+3:]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
		content = strings.TrimSpace(content)
	}

	content = strings.TrimPrefix(content, "cypher\n")
	content = strings.TrimPrefix(content, "cypher ")
	return strings.TrimSpace(content)
}

// formatRecords renders records as JSON lines for the answer prompt.
func formatRecords(records []map[string]any) string {
	if len(records) == 0 {
		return "(no results)"
	}
	var b strings.Builder
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			fmt.Fprintf(&b, "%v\n", record)
			continue
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// Ask is a convenience wrapper returning only the final answer text.
func (c *CypherChain) Ask(ctx context.Context, question string) (string, error) {
	result, err := c.Run(ctx, question)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}
