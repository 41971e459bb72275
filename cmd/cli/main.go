package main

import (
	"context"
	"log"
	"os"

	"github.com/homecloud-app/homecloud/internal/buildinfo"
	"github.com/homecloud-app/homecloud/internal/client/cli"
	"github.com/homecloud-app/homecloud/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
