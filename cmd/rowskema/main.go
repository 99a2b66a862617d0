// Command rowskema validates delimited and fixed-width files against a
// schema file.
//
//	rowskema validate --schema products.yaml a.csv b.csv
//	rowskema headers --schema products.yaml
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
