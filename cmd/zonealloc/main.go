// Command zonealloc solves capacitated assignment instances.
//
// Usage:
//
//	zonealloc solve instance.yaml [--format table|json] [--cross-check]
//	zonealloc generate --resources 40 --zones 4 --seed 7 > instance.yaml
//	zonealloc serve --addr :8080
//	zonealloc version
//
// Settings come from flags, ZONEALLOC_* environment variables and an
// optional --config YAML file, in that order of precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zonealloc:", err)
		os.Exit(1)
	}
}
