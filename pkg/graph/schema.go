package graph

import (
	"context"
	"fmt"
	"strings"
)

// Schema returns a text description of the graph: node labels, relationship
// types, and property keys. The cypher chain feeds it to the model so
// generated queries only reference what exists.
func (g *Graph) Schema(ctx context.Context) (string, error) {
	labels, err := g.stringColumn(ctx, "CALL db.labels() YIELD label RETURN label", "label")
	if err != nil {
		return "", fmt.Errorf("graph: failed to list labels: %w", err)
	}
	relTypes, err := g.stringColumn(ctx, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType", "relationshipType")
	if err != nil {
		return "", fmt.Errorf("graph: failed to list relationship types: %w", err)
	}
	propKeys, err := g.stringColumn(ctx, "CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey", "propertyKey")
	if err != nil {
		return "", fmt.Errorf("graph: failed to list property keys: %w", err)
	}

	return formatSchema(labels, relTypes, propKeys), nil
}

func (g *Graph) stringColumn(ctx context.Context, cypher, key string) ([]string, error) {
	records, err := g.Query(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(records))
	for _, record := range records {
		if v, ok := record[key].(string); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

func formatSchema(labels, relTypes, propKeys []string) string {
	var b strings.Builder
	b.WriteString("Node labels: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\nRelationship types: ")
	b.WriteString(strings.Join(relTypes, ", "))
	b.WriteString("\nProperty keys: ")
	b.WriteString(strings.Join(propKeys, ", "))
	return b.String()
}
