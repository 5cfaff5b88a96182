package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExitOnError prints the error to stderr and exits with status 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// mustGetBool retrieves a boolean flag value, panicking on error.
// Used only for flags registered by this package, where a lookup
// failure is a programming bug.
func mustGetBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not registered: %v", name, err))
	}
	return value
}
