package main

import (
	"os"

	"lovelace/backend/internal/app"
)

// @title        Lovelace Chat API
// @version      1.0
// @description  Minimal chat backend: authenticated transcript storage and SSE streaming of model output.
// @BasePath     /
func main() {
	os.Exit(app.Run())
}
