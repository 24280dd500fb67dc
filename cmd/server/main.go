package main

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	app.Run(context.Background())
}
