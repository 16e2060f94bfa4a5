package matching

import (
	"regexp"
	"strings"
)

// MatchPath matches a request path against a configured path. Segments of
// the form ":name" match any single non-empty segment and are returned as
// params. Leading and trailing slashes are ignored.
//
//	MatchPath("/users/:id", "/users/42") // {"id": "42"}, true
func MatchPath(pattern, path string) (map[string]string, bool) {
	patternParts := splitPath(pattern)
	pathParts := splitPath(path)

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, part := range patternParts {
		if isParamSegment(part) {
			if pathParts[i] == "" {
				return nil, false
			}
			params[part[1:]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

// MatchPathPattern matches a request path against a regular expression.
// Named capture groups are returned as params.
func MatchPathPattern(re *regexp.Regexp, path string) (map[string]string, bool) {
	return matchCaptures(re, path)
}

func matchCaptures(re *regexp.Regexp, s string) (map[string]string, bool) {
	if re == nil {
		return nil, false
	}
	match := re.FindStringSubmatch(s)
	if match == nil {
		return nil, false
	}

	captures := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" && i < len(match) {
			captures[name] = match[i]
		}
	}
	return captures, true
}

// RelativePath strips base from path. The second result is false when path
// is outside base.
func RelativePath(base, path string) (string, bool) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if !strings.HasPrefix(path, base+"/") {
		return "", false
	}
	return path[len(base):], true
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func isParamSegment(s string) bool {
	return len(s) > 1 && s[0] == ':'
}
