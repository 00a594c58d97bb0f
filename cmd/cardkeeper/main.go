package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cardkeeper/internal/app"
	"github.com/dmitrijs2005/cardkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/cardkeeper/internal/cli"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	a, err := app.New(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	cli.Run(ctx, a, os.Stdin)
}
