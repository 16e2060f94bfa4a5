// mockconf CLI - serves REST and GraphQL mocks from a configuration file
package main

import "github.com/getmockd/mockconf/pkg/cli"

func main() {
	cli.Execute()
}
