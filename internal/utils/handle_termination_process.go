package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// HandleTerminationProcess возвращает контекст, который отменяется по SIGINT или SIGTERM.
// Повторный сигнал завершает процесс немедленно.
func HandleTerminationProcess(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
			signal.Stop(c)
			return
		}

		<-c
		os.Exit(1)
	}()

	return ctx, cancel
}
