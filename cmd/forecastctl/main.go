// Command forecastctl projects a cashflow snapshot from a JSON or TOML file
// and can trigger the reminder job against the database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
