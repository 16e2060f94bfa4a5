package mock

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restConfig(routes ...*RouteConfig) *Config {
	return &Config{Rest: &API{Configs: []*RequestConfig{{
		Kind:   KindREST,
		Method: MethodGet,
		Path:   "/users",
		Routes: routes,
	}}}}
}

func requireConfigError(t *testing.T, err error, path string) {
	t.Helper()
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T", err)
	assert.Equal(t, path, cfgErr.Path)
}

func TestConfigValidate_Valid(t *testing.T) {
	cfg := &Config{
		Rest: &API{Configs: []*RequestConfig{
			{
				Kind:   KindREST,
				Method: MethodGet,
				Path:   "/users/:id",
				Routes: []*RouteConfig{
					{
						Data: map[string]any{"id": 1},
						Entities: &Entities{
							Params: map[string]Descriptor{"id": {CheckMode: CheckEquals, Value: "1"}},
							Body:   &PlainEntity{Fields: map[string]Descriptor{"a": {CheckMode: CheckExists}}},
						},
					},
					{Data: "fallback"},
				},
			},
			{
				Method:      MethodPost,
				PathPattern: regexp.MustCompile(`^/files/.*$`),
				Routes: []*RouteConfig{{
					Queue:    []QueueItem{{Data: 1}, {File: "two.json"}},
					Settings: Settings{Polling: true, Status: 201},
				}},
			},
		}},
		GraphQL: &API{Configs: []*RequestConfig{{
			Kind:          KindGraphQL,
			OperationType: OperationQuery,
			OperationName: "GetUsers",
			Routes: []*RouteConfig{{
				Data:     []any{},
				Entities: &Entities{Variables: &PlainEntity{Whole: &Descriptor{CheckMode: CheckEquals, Value: map[string]any{}}}},
			}},
		}}},
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, KindREST, cfg.Rest.Configs[1].Kind, "kind defaults from the enclosing api")
}

func TestConfigValidate_Errors(t *testing.T) {
	delay := -time.Second

	tests := []struct {
		name string
		cfg  *Config
		path string
	}{
		{"nil", nil, ""},
		{"empty", &Config{}, ""},
		{
			"bad method",
			&Config{Rest: &API{Configs: []*RequestConfig{{Kind: KindREST, Method: "trace", Path: "/", Routes: []*RouteConfig{{}}}}}},
			"rest.configs[0].method",
		},
		{
			"path and pattern",
			&Config{Rest: &API{Configs: []*RequestConfig{{Kind: KindREST, Method: MethodGet, Path: "/a", PathPattern: regexp.MustCompile("a"), Routes: []*RouteConfig{{}}}}}},
			"rest.configs[0]",
		},
		{
			"no routes",
			&Config{Rest: &API{Configs: []*RequestConfig{{Kind: KindREST, Method: MethodGet, Path: "/a"}}}},
			"rest.configs[0].routes",
		},
		{
			"graphql without name",
			&Config{GraphQL: &API{Configs: []*RequestConfig{{Kind: KindGraphQL, OperationType: OperationQuery, Routes: []*RouteConfig{{}}}}}},
			"graphql.configs[0]",
		},
		{
			"graphql bad operation type",
			&Config{GraphQL: &API{Configs: []*RequestConfig{{Kind: KindGraphQL, OperationType: "subscription", OperationName: "X", Routes: []*RouteConfig{{}}}}}},
			"graphql.configs[0].operationType",
		},
		{"data and file", restConfig(&RouteConfig{Data: 1, File: "a.json"}), "rest.configs[0].routes[0]"},
		{"queue without polling", restConfig(&RouteConfig{Queue: []QueueItem{{Data: 1}}}), "rest.configs[0].routes[0].queue"},
		{"polling without queue", restConfig(&RouteConfig{Data: 1, Settings: Settings{Polling: true}}), "rest.configs[0].routes[0].settings.polling"},
		{"empty queue", restConfig(&RouteConfig{Queue: []QueueItem{}, Settings: Settings{Polling: true}}), "rest.configs[0].routes[0].queue"},
		{"queue item data and file", restConfig(&RouteConfig{Queue: []QueueItem{{Data: 1, File: "x"}}, Settings: Settings{Polling: true}}), "rest.configs[0].routes[0].queue[0]"},
		{"queue item negative delay", restConfig(&RouteConfig{Queue: []QueueItem{{Data: 1, Delay: &delay}}, Settings: Settings{Polling: true}}), "rest.configs[0].routes[0].queue[0].time"},
		{"bad status", restConfig(&RouteConfig{Settings: Settings{Status: 99}}), "rest.configs[0].routes[0].settings.status"},
		{"negative delay", restConfig(&RouteConfig{Settings: Settings{Delay: -time.Millisecond}}), "rest.configs[0].routes[0].settings.delay"},
		{
			"variables on rest",
			restConfig(&RouteConfig{Entities: &Entities{Variables: &PlainEntity{Fields: map[string]Descriptor{}}}}),
			"rest.configs[0].routes[0].entities.variables",
		},
		{
			"bad mapped descriptor",
			restConfig(&RouteConfig{Entities: &Entities{Query: map[string]Descriptor{"x": {CheckMode: CheckEquals, Value: []any{1}}}}}),
			"rest.configs[0].routes[0].entities.query.x",
		},
		{
			"whole body with primitive",
			restConfig(&RouteConfig{Entities: &Entities{Body: &PlainEntity{Whole: &Descriptor{CheckMode: CheckEquals, Value: "x"}}}}),
			"rest.configs[0].routes[0].entities.body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireConfigError(t, tt.cfg.Validate(), tt.path)
		})
	}
}

func TestConfigValidate_GraphQLEntities(t *testing.T) {
	cfg := &Config{GraphQL: &API{Configs: []*RequestConfig{{
		Kind:          KindGraphQL,
		OperationType: OperationMutation,
		OperationName: "CreateUser",
		Routes: []*RouteConfig{{
			Entities: &Entities{Body: &PlainEntity{Fields: map[string]Descriptor{}}},
		}},
	}}}}
	requireConfigError(t, cfg.Validate(), "graphql.configs[0].routes[0].entities.body")
}

func TestAssignRouteIDs(t *testing.T) {
	cfg := restConfig(&RouteConfig{}, &RouteConfig{ID: "custom"})
	cfg.GraphQL = &API{Configs: []*RequestConfig{{OperationType: OperationQuery, OperationName: "Q", Routes: []*RouteConfig{{}}}}}

	cfg.AssignRouteIDs()

	assert.Equal(t, "rest/0/0", cfg.Rest.Configs[0].Routes[0].ID)
	assert.Equal(t, "custom", cfg.Rest.Configs[0].Routes[1].ID)
	assert.Equal(t, "graphql/0/0", cfg.GraphQL.Configs[0].Routes[0].ID)
	assert.Equal(t, KindGraphQL, cfg.GraphQL.Configs[0].Kind)
}

func TestRouteMode(t *testing.T) {
	assert.Equal(t, ModeData, (&RouteConfig{}).Mode())
	assert.Equal(t, ModeQueue, (&RouteConfig{Queue: []QueueItem{{}}}).Mode())
	assert.Equal(t, ModeFile, (&RouteConfig{File: "a.json"}).Mode())
}

func TestRequestConfigIdentity(t *testing.T) {
	assert.Equal(t, "GET /users/:id", (&RequestConfig{Kind: KindREST, Method: MethodGet, Path: "/users/:id"}).Identity())
	assert.Equal(t, "query GetUsers", (&RequestConfig{Kind: KindGraphQL, OperationType: OperationQuery, OperationName: "GetUsers"}).Identity())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", JoinPath())
	assert.Equal(t, "/", JoinPath("", "/"))
	assert.Equal(t, "/api/users", JoinPath("/api/", "users"))
	assert.Equal(t, "/api/v1/graphql", JoinPath("api", "/v1/", "/graphql/"))
}
