package main

import (
	"os"

	"salon/backend/internal/app"
	"salon/backend/internal/config"
)

func main() {
	os.Exit(app.Run(config.Defaults{Service: "catalog-service", HTTPPort: 8083, GRPCPort: 9093}, app.Services))
}
