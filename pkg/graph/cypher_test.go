package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/chats"
	"github.com/weftlabs/weft/pkg/llm"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Query(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	args := m.Called(ctx, cypher, params)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.([]map[string]any), args.Error(1)
}

func (m *mockRunner) Schema(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Call(ctx context.Context, messages []chats.Message, opts ...llm.CallOption) (*llm.Response, error) {
	args := m.Called(ctx, messages, opts)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*llm.Response), args.Error(1)
}

func (m *mockClient) Stream(ctx context.Context, messages []chats.Message, opts ...llm.CallOption) <-chan llm.StreamEvent {
	args := m.Called(ctx, messages, opts)
	return args.Get(0).(<-chan llm.StreamEvent)
}

func generationMessages(msgs []chats.Message) bool {
	return len(msgs) == 2 && strings.Contains(msgs[0].Content, "generate a Cypher statement")
}

func answerMessages(msgs []chats.Message) bool {
	return len(msgs) == 2 && strings.Contains(msgs[0].Content, "Results:")
}

func TestCypherChainRun(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).
		Return("Node labels: Movie\nRelationship types: ACTED_IN\nProperty keys: title", nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(generationMessages), mock.Anything).
		Return(&llm.Response{Content: "```cypher\nMATCH (m:Movie) RETURN m.title\n```"}, nil)
	runner.
		On("Query", t.Context(), "MATCH (m:Movie) RETURN m.title", map[string]any(nil)).
		Return([]map[string]any{
			{"m.title": "Top Gun"},
			{"m.title": "Apollo 13"},
		}, nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(answerMessages), mock.Anything).
		Return(&llm.Response{Content: "Top Gun and Apollo 13."}, nil)

	chain := NewCypherChain(client, runner)
	result, err := chain.Run(t.Context(), "Which movies are in the database?")

	require.NoError(t, err)
	assert.Equal(t, "MATCH (m:Movie) RETURN m.title", result.Cypher)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, "Top Gun and Apollo 13.", result.Answer)

	runner.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestCypherChainRun_SchemaInGenerationPrompt(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("Node labels: Person", nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(func(msgs []chats.Message) bool {
			return generationMessages(msgs) &&
				strings.Contains(msgs[0].Content, "Node labels: Person") &&
				msgs[1] == chats.NewUserMessage("Who acted in Top Gun?")
		}), mock.Anything).
		Return(&llm.Response{Content: ""}, nil)

	chain := NewCypherChain(client, runner)
	_, err := chain.Run(t.Context(), "Who acted in Top Gun?")

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestCypherChainRun_EmptyGeneration(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("Node labels: Movie", nil)
	client.
		On("Call", t.Context(), mock.Anything, mock.Anything).
		Return(&llm.Response{Content: ""}, nil)

	chain := NewCypherChain(client, runner)
	result, err := chain.Run(t.Context(), "What is the meaning of life?")

	require.NoError(t, err)
	assert.Equal(t, DontKnowAnswer, result.Answer)
	assert.Empty(t, result.Cypher)
	runner.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestCypherChainRun_TopKCapsRecords(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	var records []map[string]any
	for i := 0; i < 15; i++ {
		records = append(records, map[string]any{"n": i})
	}

	runner.On("Schema", t.Context()).Return("Node labels: Movie", nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(generationMessages), mock.Anything).
		Return(&llm.Response{Content: "MATCH (n) RETURN n"}, nil)
	runner.
		On("Query", t.Context(), "MATCH (n) RETURN n", map[string]any(nil)).
		Return(records, nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(answerMessages), mock.Anything).
		Return(&llm.Response{Content: "Lots of nodes."}, nil)

	chain := NewCypherChain(client, runner, WithTopK(3))
	result, err := chain.Run(t.Context(), "How many nodes are there?")

	require.NoError(t, err)
	assert.Len(t, result.Records, 3)
}

func TestCypherChainRun_QueryError(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("Node labels: Movie", nil)
	client.
		On("Call", t.Context(), mock.Anything, mock.Anything).
		Return(&llm.Response{Content: "MATCH (n) RETURN n"}, nil)
	runner.
		On("Query", t.Context(), "MATCH (n) RETURN n", map[string]any(nil)).
		Return(nil, errors.New("syntax error"))

	chain := NewCypherChain(client, runner)
	_, err := chain.Run(t.Context(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestCypherChainRun_GenerationError(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("Node labels: Movie", nil)
	client.
		On("Call", t.Context(), mock.Anything, mock.Anything).
		Return(nil, errors.New("model unavailable"))

	chain := NewCypherChain(client, runner)
	_, err := chain.Run(t.Context(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cypher generation failed")
}

func TestCypherChainRun_SchemaError(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("", errors.New("connection refused"))

	chain := NewCypherChain(client, runner)
	_, err := chain.Run(t.Context(), "anything")

	require.Error(t, err)
	client.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
}

func TestCypherChainAsk(t *testing.T) {
	runner := new(mockRunner)
	client := new(mockClient)

	runner.On("Schema", t.Context()).Return("Node labels: Movie", nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(generationMessages), mock.Anything).
		Return(&llm.Response{Content: "MATCH (m:Movie) RETURN count(m)"}, nil)
	runner.
		On("Query", t.Context(), "MATCH (m:Movie) RETURN count(m)", map[string]any(nil)).
		Return([]map[string]any{{"count(m)": int64(3)}}, nil)
	client.
		On("Call", t.Context(), mock.MatchedBy(answerMessages), mock.Anything).
		Return(&llm.Response{Content: "There are 3 movies.  "}, nil)

	chain := NewCypherChain(client, runner)
	answer, err := chain.Ask(t.Context(), "How many movies are there?")

	require.NoError(t, err)
	assert.Equal(t, "There are 3 movies.", answer)
}

func TestExtractCypher(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "plain statement",
			content:  "MATCH (n) RETURN n",
			expected: "MATCH (n) RETURN n",
		},
		{
			name:     "fenced with language tag",
			content:  "```cypher\nMATCH (n) RETURN n\n```",
			expected: "MATCH (n) RETURN n",
		},
		{
			name:     "fenced without language tag",
			content:  "```\nMATCH (n) RETURN n\n```",
			expected: "MATCH (n) RETURN n",
		},
		{
			name:     "fence surrounded by prose",
			content:  "Here is the query:\n```cypher\nMATCH (n) RETURN n\n```\nHope this helps!",
			expected: "MATCH (n) RETURN n",
		},
		{
			name:     "leading language word",
			content:  "cypher MATCH (n) RETURN n",
			expected: "MATCH (n) RETURN n",
		},
		{
			name:     "empty response",
			content:  "   \n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCypher(tt.content))
		})
	}
}

func TestFormatRecords(t *testing.T) {
	assert.Equal(t, "(no results)", formatRecords(nil))

	out := formatRecords([]map[string]any{
		{"title": "Top Gun"},
		{"title": "Apollo 13"},
	})
	assert.Equal(t, "{\"title\":\"Top Gun\"}\n{\"title\":\"Apollo 13\"}", out)
}

func TestFormatSchema(t *testing.T) {
	out := formatSchema(
		[]string{"Movie", "Person"},
		[]string{"ACTED_IN"},
		[]string{"title", "name"},
	)

	assert.Equal(t, "Node labels: Movie, Person\nRelationship types: ACTED_IN\nProperty keys: title, name", out)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_DATABASE", "movies")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		URI:      "neo4j://localhost:7687",
		Username: "neo4j",
		Password: "secret",
		Database: "movies",
	}, cfg)
}

func TestConfigFromEnv_MissingURI(t *testing.T) {
	t.Setenv("NEO4J_URI", "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Equal(t, "NEO4J_URI environment variable is not set", err.Error())
}
