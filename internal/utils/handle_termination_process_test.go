package utils

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandleTerminationProcess(t *testing.T) {
	t.Run("Отмена родительского контекста", func(t *testing.T) {
		parent, cancelParent := context.WithCancel(context.Background())
		ctx, cancel := HandleTerminationProcess(parent)
		defer cancel()

		cancelParent()
		assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 5*time.Millisecond)
	})

	t.Run("Сигнал SIGTERM отменяет контекст", func(t *testing.T) {
		ctx, cancel := HandleTerminationProcess(context.Background())
		defer cancel()

		assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
		assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 5*time.Millisecond)
	})
}
