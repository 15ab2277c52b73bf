package main

import (
	"os"

	"github.com/Norgate-AV/tyburn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
