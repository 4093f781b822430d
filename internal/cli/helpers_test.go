package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	interrupted := fmt.Errorf("failed to load network main: %w", context.Canceled)

	tests := []struct {
		name string
		err  error
		sig  os.Signal
		want int
	}{
		{"success", nil, nil, 0},
		{"failure", errors.New("boom"), nil, 1},
		{"sigint", interrupted, syscall.SIGINT, 130},
		{"sigterm", interrupted, syscall.SIGTERM, 143},
		{"cancelled without signal", interrupted, nil, 130},
		{"signal does not mask failures", errors.New("boom"), syscall.SIGINT, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err, tt.sig))
		})
	}
}

func TestIsInterrupted(t *testing.T) {
	assert.True(t, IsInterrupted(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.False(t, IsInterrupted(context.DeadlineExceeded))
	assert.False(t, IsInterrupted(nil))
}

func TestPrintSystemMessage(t *testing.T) {
	var buf bytes.Buffer
	PrintSystemMessage(&buf, "Interrupted")
	assert.Equal(t, ">>> Interrupted\n", buf.String())
}

func TestSignalContextCancel(t *testing.T) {
	ctx := NewSignalContext(context.Background())
	ctx.Cancel()
	<-ctx.Done()
	assert.Nil(t, ctx.Signal())
}
