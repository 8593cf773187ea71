package main

import (
	"os"

	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/aslmarket/backend/internal/server"
)

// @title ASL Market API
// @version 1.0
// @description B2B marketplace API: suppliers, visitors, matching, research products and training content

// @contact.name API Support
// @contact.email support@aslmarket.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup steps log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
