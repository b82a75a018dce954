// FilePath: cmd/main.go
package main

import (
	"fmt"
	"os"

	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/server"
)

var banner = []string{
	"    __  __                     ______                 __  ",
	"   / / / /___  ____ ___  ___  / ____/________ _____  / /_ ",
	"  / /_/ / __ \\/ __ `__ \\/ _ \\/ / __/ ___/ __ `/ __ \\/ __ \\",
	" / __  / /_/ / / / / / /  __/ /_/ / /  / /_/ / /_/ / / / /",
	"/_/ /_/\\____/_/ /_/ /_/\\___/\\____/_/   \\__,_/ .___/_/ /_/ ",
	"                                           /_/",
}

// @title HomeGraph Readings API
// @version 1.0
// @description Ingestion and retrieval of device sensor readings.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	nuts.InitVersion()
	showBanner(nuts.GetVersion())

	if err := run(); err != nil {
		nuts.L.Errorf("[Main] %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	nuts.L.Infof("[Main] HomeGraph Hub v%s: %s store, listening on %s:%d",
		nuts.GetVersion(), cfg.Database.Driver, cfg.Server.Host, cfg.Server.Port)
	return server.New(cfg).Start()
}

func showBanner(version string) {
	tm.Clear()
	tm.MoveCursor(1, 1)
	for _, line := range banner {
		tm.Println(tm.Color(line, tm.CYAN))
	}
	tm.Println(tm.Color("  readings hub v"+version, tm.YELLOW))
	tm.Println()
	tm.Flush()
}
