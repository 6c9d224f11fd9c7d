package main

import (
	"os"

	"salon/backend/internal/app"
	"salon/backend/internal/config"
)

func main() {
	os.Exit(app.Run(config.Defaults{Service: "booking-service", HTTPPort: 8084, GRPCPort: 9094}, app.Bookings))
}
