package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/roomstage-backend/internal/app"
	"github.com/yungbote/roomstage-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}
