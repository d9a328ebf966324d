package main

import (
	"github.com/midsquest/midsquest/internal/cli"
	"github.com/midsquest/midsquest/internal/common/logtrace"
)

func init() {
	// Replaced once the configuration is loaded.
	logtrace.InitLogger("info", true)
}

func main() {
	cli.Execute()
}
