package main

import (
	"fmt"
	"os"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/cmd/boam/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
