package resident

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunkya2/smbfs-x68k/internal/config"
	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
)

func testOptions() config.Options {
	return config.Options{Units: 2, HeapKiB: config.DefaultHeapKiB}
}

func TestInstallReservesDrivesAndLinks(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := Install(ctx, env, testOptions(), logrus.New())
	require.NoError(t, err)
	defer r.Keepalive.Stop()

	assert.Equal(t, []byte{'A', 'B'}, r.Drives)
	assert.True(t, env.DriverInstalled(DriverName))
	assert.Equal(t, []byte{'A', 'B'}, sortedDrives(env.FindDriverEntry(DriverName)))
}

func sortedDrives(drives []byte) []byte {
	out := append([]byte(nil), drives...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func TestInstallRejectsInvalidOptions(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	_, err := Install(context.Background(), env, config.Options{Units: 0, HeapKiB: config.DefaultHeapKiB}, logrus.New())
	assert.Error(t, err)
}

func TestInstallRejectsNoNetworking(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	env.SetNetworkingLoaded(false)
	_, err := Install(context.Background(), env, testOptions(), logrus.New())
	assert.Error(t, err)
}

func TestInstallRejectsDuplicateResident(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := Install(ctx, env, testOptions(), logrus.New())
	require.NoError(t, err)
	defer r.Keepalive.Stop()

	_, err = Install(ctx, env, testOptions(), logrus.New())
	assert.Error(t, err)
}

func TestInstallRejectsInsufficientDriveLetters(t *testing.T) {
	env := hostenv.NewSimulated('B') // only A, B available
	_, err := Install(context.Background(), env, config.Options{Units: 3, HeapKiB: config.DefaultHeapKiB}, logrus.New())
	assert.Error(t, err)
}

func TestRemoveUnlinksAndClearsDrives(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := Install(ctx, env, testOptions(), logrus.New())
	require.NoError(t, err)

	require.NoError(t, r.Remove(env))
	assert.False(t, env.DriverInstalled(DriverName))
	assert.Nil(t, env.FindDriverEntry(DriverName))
}

func TestRemoveWithNoMountedUnitsSucceeds(t *testing.T) {
	env := hostenv.NewSimulated('Z')
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := Install(ctx, env, testOptions(), logrus.New())
	require.NoError(t, err)
	assert.NoError(t, r.Remove(env))
}
