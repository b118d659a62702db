// scriptfront - command line front end for the script language
package main

import (
	"os"

	"github.com/msto63/scriptfront/cmd/scriptfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
