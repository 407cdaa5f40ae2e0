package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/productscience/monorange/cmd/monorangecfg/cmd"
	"github.com/productscience/monorange/runconfig"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		// config problems were already printed as a report
		if !isConfigError(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		osExit(1)
	}
}

func isConfigError(err error) bool {
	for _, sentinel := range []error{runconfig.ErrPath, runconfig.ErrParse, runconfig.ErrSchema, runconfig.ErrAliasMismatch} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Placeholder for os.Exit function to allow interception in tests
var osExit = os.Exit
