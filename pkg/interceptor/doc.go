// Package interceptor runs user-supplied request and response interceptors
// around request resolution.
//
// Interceptors are declared at four scopes. Both phases invoke them in the
// same fixed order:
//
//	route -> request config -> api group (rest/graphql) -> server
//
// Each phase is a sequential chain. A request interceptor that fails aborts
// the chain. A response interceptor receives the previous slot's data and
// returns the data for the next slot; a failure aborts the chain and the last
// successfully produced data is kept.
//
// All slots of a request share a single *Params, so header, cookie and status
// writes are last-writer-wins.
package interceptor
