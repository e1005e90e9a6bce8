// Package main provides the API to manage back-office customers, accounts and balance operations.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/bankops/backoffice/cmd/httpserver"
	"github.com/bankops/backoffice/internal/middleware"
	"github.com/bankops/backoffice/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	server, err := httpserver.New(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("BACK OFFICE LEDGER SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
