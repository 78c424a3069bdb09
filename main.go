package main

import (
	"os"

	"github.com/procureml/poclass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
