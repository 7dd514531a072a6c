// Package graph connects to a Neo4j database and answers natural-language
// questions over it by generating Cypher with a chat model.
package graph

import (
	"context"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds the connection settings for a Neo4j instance.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// ConfigFromEnv reads the connection settings from NEO4J_URI, NEO4J_USERNAME,
// NEO4J_PASSWORD and the optional NEO4J_DATABASE.
func ConfigFromEnv() (Config, error) {
	uri, exists := os.LookupEnv("NEO4J_URI")
	if !exists || uri == "" {
		return Config{}, fmt.Errorf("NEO4J_URI environment variable is not set")
	}
	username, exists := os.LookupEnv("NEO4J_USERNAME")
	if !exists || username == "" {
		return Config{}, fmt.Errorf("NEO4J_USERNAME environment variable is not set")
	}
	password, exists := os.LookupEnv("NEO4J_PASSWORD")
	if !exists || password == "" {
		return Config{}, fmt.Errorf("NEO4J_PASSWORD environment variable is not set")
	}
	return Config{
		URI:      uri,
		Username: username,
		Password: password,
		Database: os.Getenv("NEO4J_DATABASE"),
	}, nil
}

// Graph is a live Neo4j connection.
type Graph struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ Runner = (*Graph)(nil)

// New connects to Neo4j and verifies connectivity before returning.
func New(ctx context.Context, cfg Config) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graph: failed to create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graph: failed to connect to %s: %w", cfg.URI, err)
	}
	return &Graph{driver: driver, database: cfg.Database}, nil
}

// Query runs a Cypher statement and returns one map per record.
func (g *Graph) Query(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, g.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(g.database),
	)
	if err != nil {
		return nil, fmt.Errorf("graph: query failed: %w", err)
	}

	records := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, record.AsMap())
	}
	return records, nil
}

// VectorSearch queries a Neo4j vector index for the k nearest nodes.
func (g *Graph) VectorSearch(ctx context.Context, index string, embedding []float32, k int) ([]map[string]any, error) {
	if k <= 0 {
		k = 10
	}
	vec := make([]any, len(embedding))
	for i, v := range embedding {
		vec[i] = float64(v)
	}

	return g.Query(ctx, `
		CALL db.index.vector.queryNodes($index, $k, $embedding)
		YIELD node, score
		RETURN node, score
	`, map[string]any{
		"index":     index,
		"k":         k,
		"embedding": vec,
	})
}

// Close releases the underlying driver.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}
