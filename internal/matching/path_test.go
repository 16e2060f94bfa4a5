package matching

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		path       string
		wantOK     bool
		wantParams map[string]string
	}{
		{
			name:       "exact match",
			pattern:    "/api/users",
			path:       "/api/users",
			wantOK:     true,
			wantParams: map[string]string{},
		},
		{
			name:       "trailing slash ignored",
			pattern:    "/api/users",
			path:       "/api/users/",
			wantOK:     true,
			wantParams: map[string]string{},
		},
		{
			name:       "root",
			pattern:    "/",
			path:       "/",
			wantOK:     true,
			wantParams: map[string]string{},
		},
		{
			name:       "single param",
			pattern:    "/users/:id",
			path:       "/users/123",
			wantOK:     true,
			wantParams: map[string]string{"id": "123"},
		},
		{
			name:    "multiple params",
			pattern: "/users/:userId/posts/:postId",
			path:    "/users/42/posts/99",
			wantOK:  true,
			wantParams: map[string]string{
				"userId": "42",
				"postId": "99",
			},
		},
		{
			name:    "segment count differs",
			pattern: "/users/:id",
			path:    "/users/1/posts",
		},
		{
			name:    "literal mismatch",
			pattern: "/api/users",
			path:    "/api/products",
		},
		{
			name:    "lone colon is literal",
			pattern: "/a/:",
			path:    "/a/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := MatchPath(tt.pattern, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantParams, params)
			} else {
				assert.Nil(t, params)
			}
		})
	}
}

func TestMatchPathPattern(t *testing.T) {
	tests := []struct {
		name         string
		pattern      string
		path         string
		wantOK       bool
		wantCaptures map[string]string
	}{
		{
			name:         "simple regex match",
			pattern:      `^/api/users/\d+$`,
			path:         "/api/users/123",
			wantOK:       true,
			wantCaptures: map[string]string{},
		},
		{
			name:    "no match",
			pattern: `^/api/users/\d+$`,
			path:    "/api/users/abc",
		},
		{
			name:         "named capture group",
			pattern:      `^/api/users/(?P<id>\d+)$`,
			path:         "/api/users/456",
			wantOK:       true,
			wantCaptures: map[string]string{"id": "456"},
		},
		{
			name:    "multiple named capture groups",
			pattern: `^/api/(?P<resource>\w+)/(?P<id>\d+)/(?P<action>\w+)$`,
			path:    "/api/users/789/edit",
			wantOK:  true,
			wantCaptures: map[string]string{
				"resource": "users",
				"id":       "789",
				"action":   "edit",
			},
		},
		{
			name:         "partial match without anchors",
			pattern:      `/users/\d+`,
			path:         "/api/users/123/profile",
			wantOK:       true,
			wantCaptures: map[string]string{},
		},
		{
			name:         "named capture with special characters",
			pattern:      `^/api/items/(?P<slug>[\w-]+)$`,
			path:         "/api/items/my-cool-item",
			wantOK:       true,
			wantCaptures: map[string]string{"slug": "my-cool-item"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captures, ok := MatchPathPattern(regexp.MustCompile(tt.pattern), tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantCaptures == nil {
				assert.Nil(t, captures)
			} else {
				require.NotNil(t, captures)
				assert.Equal(t, tt.wantCaptures, captures)
			}
		})
	}

	t.Run("nil pattern", func(t *testing.T) {
		_, ok := MatchPathPattern(nil, "/")
		assert.False(t, ok)
	})
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		base, path string
		want       string
		wantOK     bool
	}{
		{"/", "/users", "/users", true},
		{"", "/users", "/users", true},
		{"/api", "/api/users", "/users", true},
		{"/api", "/api", "/", true},
		{"/api/", "/api/users", "/users", true},
		{"/api", "/apiusers", "", false},
		{"/api", "/other/users", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.base+" "+tt.path, func(t *testing.T) {
			got, ok := RelativePath(tt.base, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
