package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupInterruptHandler cancels the run context on SIGINT/SIGTERM. The batch
// loop checks the context between items, so a second signal force-exits.
func SetupInterruptHandler(cancel context.CancelFunc, log interface{ Warnf(string, ...any) }) {
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		if log != nil {
			log.Warnf("interrupt received, stopping after the current request")
		}
		cancel()

		<-sig
		os.Exit(1)
	}()
}
