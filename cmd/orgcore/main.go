package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/hearthsoft/orgcore/conf"
	"github.com/hearthsoft/orgcore/internal/build"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/server"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			showVersion()
			return
		case "help", "--help", "-h":
			showHelp()
			return
		case "build-info":
			showBuildInfo()
			return
		}
	}

	start()
}

type logger struct{}

func (l *logger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

func start() {
	server.Run(
		fx.WithLogger(func() fxevent.Logger {
			return &logger{}
		}),
		fx.Provide(conf.Load),
	)
}

func showVersion() {
	fmt.Println(build.Version)
}

func showBuildInfo() {
	fmt.Println(build.GetBuildInfo())
}

func showHelp() {
	fmt.Printf(`orgcore - multi-tenant organization core

Usage:
  orgcore              start the service
  orgcore version      print the version
  orgcore build-info   print full build information
  orgcore help         show this help

Configuration is read from config.yaml in the working directory or
./config, with ORGCORE_* environment variables taking precedence.
`)
}
