package main

import (
	"os"

	"github.com/samandr77/microservices/swish/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}
