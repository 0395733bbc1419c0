package main

import (
	"fmt"
	"os"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/cli"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", rdf.Code(err), err)
		os.Exit(1)
	}
}
