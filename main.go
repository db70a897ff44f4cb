package main

import (
	"os"

	"github.com/ardanlabs/c2ffi/cli"
	"github.com/ardanlabs/c2ffi/frontend/libclang"
	"github.com/ardanlabs/c2ffi/logger"
)

func main() {
	if err := cli.NewRootCmd(libclang.New()).Execute(); err != nil {
		logger.Cleanup()
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
