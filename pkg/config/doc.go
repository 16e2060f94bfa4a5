// Package config loads mock server configuration files.
//
// A configuration is read from YAML, JSON or TOML. Loading runs in stages:
//   - ${VAR} and ${VAR:-default} references are expanded
//   - the document is decoded and checked against an embedded JSON Schema
//   - it is decoded into File and its value ranges are validated
//   - File.ToMockConfig compiles patterns and expressions and canonicalizes
//     entity descriptors into a mock.Config, which is then validated
//
// Example:
//
//	baseUrl: /api
//	rest:
//	  configs:
//	    - method: get
//	      path: /users/:id
//	      routes:
//	        - entities:
//	            params:
//	              id: "1"
//	          data: { id: 1, name: Jo }
//	        - dataExpr: '{"id": params.id, "name": fake("name")}'
//	graphql:
//	  baseUrl: /graphql
//	  configs:
//	    - operationType: query
//	      operationName: GetJob
//	      routes:
//	        - settings: { polling: true }
//	          queue:
//	            - data: { status: pending }
//	            - data: { status: done }
//	              time: 500
//
// Server settings come from DefaultServerConfiguration, the file's server
// section, then the MOCKCONF_* environment variables.
package config
