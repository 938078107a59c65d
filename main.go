package main

import (
	"context"
	"os"

	"github.com/tuned-app/tuned/pkg/cli"
	"github.com/tuned-app/tuned/pkg/utils/logging"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error(err.Message)
		os.Exit(err.Code)
	}
}
