package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/getmockd/mockconf/pkg/mock"
)

var errNotGraphQL = errors.New("not a graphql request")

// graphQLRequest is a GraphQL request reduced to what matching needs.
type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`

	OperationType mock.OperationType `json:"-"`
}

// parseGraphQLRequest reads a GraphQL request from query parameters (GET)
// or from a JSON or application/graphql body (POST), then parses the
// document to find the operation's type and name.
func parseGraphQLRequest(r *http.Request, body []byte) (*graphQLRequest, error) {
	req := &graphQLRequest{}

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return nil, fmt.Errorf("invalid variables JSON: %w", err)
			}
		}
	case http.MethodPost:
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/graphql") {
			req.Query = string(body)
			break
		}
		if err := json.Unmarshal(body, req); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON request body", errNotGraphQL)
		}
	default:
		return nil, errNotGraphQL
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", errNotGraphQL)
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	op := selectOperation(doc, req.OperationName)
	if op == nil {
		if req.OperationName != "" {
			return nil, fmt.Errorf("operation %q not found", req.OperationName)
		}
		return nil, errors.New("no operation found in query")
	}

	switch op.Operation {
	case ast.Query:
		req.OperationType = mock.OperationQuery
	case ast.Mutation:
		req.OperationType = mock.OperationMutation
	default:
		return nil, fmt.Errorf("unsupported operation type %q", op.Operation)
	}
	req.OperationName = op.Name
	return req, nil
}

func selectOperation(doc *ast.QueryDocument, name string) *ast.OperationDefinition {
	for _, op := range doc.Operations {
		if name == "" || op.Name == name {
			return op
		}
	}
	return nil
}
