package main

import (
	"os"

	"mediation-api/core/command"
	"mediation-api/core/logger"
)

// @title Mediation API
// @version 1.0
// @description Case participant membership with a protected mediator set

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := command.Execute(); err != nil {
		logger.Error("mediation-api exited with error", "error", err)
		os.Exit(1)
	}
}
