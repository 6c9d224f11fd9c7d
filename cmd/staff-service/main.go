package main

import (
	"os"

	"salon/backend/internal/app"
	"salon/backend/internal/config"
)

func main() {
	os.Exit(app.Run(config.Defaults{Service: "staff-service", HTTPPort: 8082, GRPCPort: 9092}, app.Staff))
}
