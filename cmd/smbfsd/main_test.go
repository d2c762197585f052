package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunkya2/smbfs-x68k/internal/config"
	"github.com/yunkya2/smbfs-x68k/internal/logging"
)

func TestRunRemoveWithoutInstallFails(t *testing.T) {
	log := logging.New(0)
	opts := config.Options{Units: 1, HeapKiB: config.DefaultHeapKiB, Remove: true}
	err := run(opts, log)
	assert.Error(t, err)
}

func TestRunInstallsAndStopsOnSignal(t *testing.T) {
	log := logging.New(0)
	opts := config.Options{Units: 1, HeapKiB: config.DefaultHeapKiB}

	done := make(chan error, 1)
	go func() { done <- run(opts, log) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after SIGINT")
	}
}
