package main

import (
	"os"

	"github.com/soundprediction/graphquery/cmd/graphquery"
)

func main() {
	if err := graphquery.Execute(); err != nil {
		os.Exit(1)
	}
}
