package main

import (
	"context"
	"fmt"
	"os"

	"github.com/soundprediction/stix-qa/cmd/stixqa"
)

func main() {
	if err := stixqa.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
