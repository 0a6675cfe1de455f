package main

import (
	"os"

	lecterncmder "github.com/lecternhq/lectern/cmd/lectern"
)

func main() {
	cmd := lecterncmder.NewLecternCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
