// Package engine serves a mock.Config over HTTP.
//
// For every request the Handler:
//
//  1. normalizes it into a REST or GraphQL identity (GraphQL when the path
//     is the GraphQL endpoint and the request carries a parsable document),
//  2. selects a route with matching.Match,
//  3. runs the request interceptors (route, request config, API, server),
//  4. resolves the route's data, file or queue step with a Resolver,
//  5. waits for the route delay,
//  6. threads the data through the response interceptors in the same order,
//  7. writes the result together with the headers, cookies and status the
//     interceptors set.
//
// Matching happens before any interceptor runs, because the route's own
// interceptors only exist once a route is chosen. A header, cookie or query
// value an interceptor sets therefore cannot select a route. It is visible to
// the route's data function and to later interceptors.
//
// Requests matching nothing get a 404 carrying suggestions. Resolution and
// interceptor failures become a 500 with message and stack.
//
// Queue cursors are the only state shared between requests. They live in
// QueueStates and advance atomically, once per resolution.
//
// # Basic Usage
//
//	srv := engine.NewServer(config.DefaultServerConfiguration(), cfg,
//	    engine.WithLogger(log),
//	    engine.WithMetrics(metrics.New()),
//	)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
package engine
