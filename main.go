package main

import (
	"os"

	"github.com/aliahadmd/file-share-ubuntu-home-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
