package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/getmockd/mockconf/pkg/mock"
)

// Suggestions are configured identities close to an unmatched request.
type Suggestions struct {
	REST    []string
	GraphQL []string
}

// Suggest returns the configured identities of req's kind whose meaningful
// string is within half its length (in Levenshtein distance) of the
// request's. Order follows declaration order without duplicates. Pattern
// identities are never suggested. Both slices are non-nil.
func Suggest(cfg *mock.Config, req *Request) Suggestions {
	s := Suggestions{REST: []string{}, GraphQL: []string{}}
	if req.Kind == mock.KindGraphQL {
		s.GraphQL = SuggestGraphQL(cfg, req.Path, req.OperationName)
	} else {
		s.REST = SuggestREST(cfg, req.Path)
	}
	return s
}

// SuggestREST proposes REST identities for a request path. Candidates with
// a different segment count than the path are discarded. Param segments
// (":id") are left out of both sides before comparing.
func SuggestREST(cfg *mock.Config, path string) []string {
	out := []string{}
	if cfg.Rest == nil {
		return out
	}
	base := mock.JoinPath(cfg.BaseURL, cfg.Rest.BaseURL)
	actualParts := splitPath(path)
	seen := make(map[string]bool)

	for _, rc := range cfg.Rest.Configs {
		if rc.PathPattern != nil || rc.Path == "" {
			continue
		}
		full := mock.JoinPath(base, rc.Path)
		candidateParts := splitPath(full)
		if len(candidateParts) != len(actualParts) {
			continue
		}

		var candidate, actual strings.Builder
		for i, part := range candidateParts {
			if isParamSegment(part) {
				continue
			}
			candidate.WriteString(part)
			actual.WriteString(actualParts[i])
		}

		if !isClose(actual.String(), candidate.String()) {
			continue
		}
		id := strings.ToUpper(string(rc.Method)) + " " + full
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// SuggestGraphQL proposes GraphQL identities for an operation sent to path.
// The compared strings are the endpoint path joined with the operation name.
func SuggestGraphQL(cfg *mock.Config, path, operationName string) []string {
	out := []string{}
	if cfg.GraphQL == nil {
		return out
	}
	endpoint := mock.JoinPath(cfg.BaseURL, cfg.GraphQL.BaseURL)
	actual := strings.TrimSuffix(path, "/") + "/" + operationName
	seen := make(map[string]bool)

	for _, rc := range cfg.GraphQL.Configs {
		if rc.OperationNamePattern != nil || rc.OperationName == "" {
			continue
		}
		candidate := strings.TrimSuffix(endpoint, "/") + "/" + rc.OperationName
		if !isClose(actual, candidate) {
			continue
		}
		id := string(rc.OperationType) + " " + rc.OperationName
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// isClose reports whether actual is within floor(len(candidate)/2) edits of
// candidate.
func isClose(actual, candidate string) bool {
	return levenshtein.ComputeDistance(actual, candidate) <= utf8.RuneCountInString(candidate)/2
}
