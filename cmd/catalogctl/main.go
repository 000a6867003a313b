// Command catalogctl runs maintenance tasks against the catalog database and cover storage.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
