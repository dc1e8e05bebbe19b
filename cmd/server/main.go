package main

import (
	"flag"

	"github.com/OFFIS-RIT/congraph/internal/config"
	"github.com/OFFIS-RIT/congraph/internal/server"
	"github.com/OFFIS-RIT/congraph/internal/util"
	"github.com/OFFIS-RIT/congraph/pkg/logger"
	"github.com/OFFIS-RIT/congraph/pkg/logger/console"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	server.Init(cfg)
}
