package main

import (
	"context"
	"log"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/cli"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
