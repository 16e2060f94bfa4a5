package matching

import (
	"regexp"
	"testing"

	"github.com/agnivade/levenshtein"
	"github.com/stretchr/testify/assert"

	"github.com/getmockd/mockconf/pkg/mock"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 1, levenshtein.ComputeDistance("psts", "posts"))
	assert.Equal(t, 0, levenshtein.ComputeDistance("posts", "posts"))
}

func TestSuggestREST(t *testing.T) {
	cfg := &mock.Config{Rest: &mock.API{Configs: []*mock.RequestConfig{
		{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/posts/:id"},
		{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/posts"},
		{Kind: mock.KindREST, Method: mock.MethodDelete, Path: "/posts/:id"},
		{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/posts/:id"},
		{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/comments/:id"},
		{Kind: mock.KindREST, Method: mock.MethodGet, PathPattern: regexp.MustCompile(`^/psts/\d+$`)},
	}}}

	assert.Equal(t, []string{"GET /posts/:id", "DELETE /posts/:id"}, SuggestREST(cfg, "/psts/5"))
	assert.Equal(t, []string{"GET /posts"}, SuggestREST(cfg, "/post"))
	assert.Empty(t, SuggestREST(cfg, "/users/5"))
	assert.NotNil(t, SuggestREST(cfg, "/users/5"))
	assert.NotNil(t, SuggestREST(&mock.Config{}, "/x"))
}

func TestSuggestREST_BaseURL(t *testing.T) {
	cfg := &mock.Config{BaseURL: "/api", Rest: &mock.API{Configs: []*mock.RequestConfig{
		{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/users"},
	}}}

	assert.Equal(t, []string{"GET /api/users"}, SuggestREST(cfg, "/api/user"))
}

func TestSuggestGraphQL(t *testing.T) {
	cfg := &mock.Config{GraphQL: &mock.API{BaseURL: "/graphql", Configs: []*mock.RequestConfig{
		{Kind: mock.KindGraphQL, OperationType: mock.OperationQuery, OperationName: "GetUsers"},
		{Kind: mock.KindGraphQL, OperationType: mock.OperationMutation, OperationName: "CreateUser"},
		{Kind: mock.KindGraphQL, OperationType: mock.OperationQuery, OperationNamePattern: regexp.MustCompile(`^Get`)},
	}}}

	// The endpoint path is part of both compared strings, which makes the
	// threshold lenient.
	assert.Equal(t, []string{"query GetUsers", "mutation CreateUser"}, SuggestGraphQL(cfg, "/graphql", "GetUser"))
	assert.Empty(t, SuggestGraphQL(cfg, "/graphql", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"))
}

func TestSuggest(t *testing.T) {
	cfg := &mock.Config{
		Rest: &mock.API{Configs: []*mock.RequestConfig{
			{Kind: mock.KindREST, Method: mock.MethodGet, Path: "/users"},
		}},
		GraphQL: &mock.API{Configs: []*mock.RequestConfig{
			{Kind: mock.KindGraphQL, OperationType: mock.OperationQuery, OperationName: "Users"},
		}},
	}

	s := Suggest(cfg, &Request{Kind: mock.KindREST, Method: "GET", Path: "/user"})
	assert.Equal(t, []string{"GET /users"}, s.REST)
	assert.Equal(t, []string{}, s.GraphQL)

	s = Suggest(cfg, &Request{Kind: mock.KindGraphQL, Path: "/", OperationName: "User"})
	assert.Equal(t, []string{}, s.REST)
	assert.Equal(t, []string{"query Users"}, s.GraphQL)
}
