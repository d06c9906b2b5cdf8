package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); hasError(err) {
		os.Exit(1)
	}
}

func hasError(err error) bool {
	return err != nil
}
