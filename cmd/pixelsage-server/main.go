package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pixelsage-server/internal/bootstrap"
)

func main() {
	fmt.Printf("[%s] [INFO] [BOOT] starting pixelsage-server...\n", time.Now().Format("2006-01-02 15:04:05.000"))
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "pixelsage-server failed: %v\n", err)
		os.Exit(1)
	}
}
