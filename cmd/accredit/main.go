// Command accredit computes outcome attainment reports, either as an HTTP
// service or offline from a payload file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
