package main

import (
	"os"

	"salon/backend/internal/app"
	"salon/backend/internal/config"
)

func main() {
	os.Exit(app.Run(config.Defaults{Service: "user-service", HTTPPort: 8081, GRPCPort: 9091}, app.Users))
}
