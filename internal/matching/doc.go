// Package matching selects the route that answers a request.
//
// Matching runs in three layers:
//
//   - Evaluate tests one descriptor (check mode plus expected value) against
//     one actual value.
//   - MatchEntities tests every descriptor of a route's entities against the
//     request's headers, cookies, query, params, body and variables.
//   - Match walks the request configs in declaration order, selects the first
//     whose identity (method and path, or operation type and name) fits the
//     request, and within it the first route whose entities hold.
//
// There is no specificity ranking: when several configs share an identity
// the first one declared with a matching route wins.
//
// When nothing matches, Suggest proposes configured identities within a
// Levenshtein distance of the request.
package matching
