// Package main is the entry point of the index-settings command.
package main

import (
	"os"

	"github.com/stacklok/index-settings-sync/cmd/index-settings/app"
	"github.com/stacklok/index-settings-sync/internal/logger"
)

func main() {
	err := app.NewRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
