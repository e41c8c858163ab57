package graphql

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// DefaultMaxDepth admits every query the marker schema can express.
const DefaultMaxDepth = 5

// calculateQueryDepth returns the deepest selection nesting in the document.
// Leaf fields do not add depth.
func calculateQueryDepth(document *ast.Document) int {
	fragments := make(map[string]*ast.FragmentDefinition)
	for _, definition := range document.Definitions {
		if frag, ok := definition.(*ast.FragmentDefinition); ok {
			fragments[frag.Name.Value] = frag
		}
	}

	maxDepth := 0
	for _, definition := range document.Definitions {
		if op, ok := definition.(*ast.OperationDefinition); ok {
			if depth := selectionSetDepth(op.SelectionSet, 0, fragments, map[string]bool{}); depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth
}

func selectionSetDepth(set *ast.SelectionSet, current int, fragments map[string]*ast.FragmentDefinition, visiting map[string]bool) int {
	if set == nil || len(set.Selections) == 0 {
		return current
	}

	maxDepth := current
	for _, selection := range set.Selections {
		depth := current
		switch sel := selection.(type) {
		case *ast.Field:
			if strings.HasPrefix(sel.Name.Value, "__") || sel.SelectionSet == nil {
				continue
			}
			depth = selectionSetDepth(sel.SelectionSet, current+1, fragments, visiting)

		case *ast.InlineFragment:
			depth = selectionSetDepth(sel.SelectionSet, current, fragments, visiting)

		case *ast.FragmentSpread:
			name := sel.Name.Value
			frag, ok := fragments[name]
			if !ok || visiting[name] {
				continue
			}
			visiting[name] = true
			depth = selectionSetDepth(frag.SelectionSet, current, fragments, visiting)
			delete(visiting, name)
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// ValidateQueryDepth parses query and rejects it when nesting exceeds maxDepth.
func ValidateQueryDepth(query string, maxDepth int) error {
	document, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	if depth := calculateQueryDepth(document); depth > maxDepth {
		return fmt.Errorf("query depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}
