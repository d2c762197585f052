package hostenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testDriver = [8]byte{'T', 'E', 'S', 'T', ' ', ' ', ' ', ' '}

func TestSimulatedReserveDriveLetters(t *testing.T) {
	s := NewSimulated('C')
	got := s.ReserveDriveLetters(2)
	assert.Equal(t, []byte{'A', 'B'}, got)

	s.SetCurrentDirEntry(CurrentDirEntry{Drive: 'A', Type: RemoteDriveType})
	got = s.ReserveDriveLetters(2)
	assert.Equal(t, []byte{'B', 'C'}, got)
}

func TestSimulatedReserveDriveLettersExhausted(t *testing.T) {
	s := NewSimulated('A')
	s.SetCurrentDirEntry(CurrentDirEntry{Drive: 'A', Type: RemoteDriveType})
	assert.Empty(t, s.ReserveDriveLetters(1))
}

func TestSimulatedDriverLifecycle(t *testing.T) {
	s := NewSimulated('Z')
	assert.False(t, s.DriverInstalled(testDriver))

	require := assert.New(t)
	require.NoError(s.LinkDriver(testDriver))
	assert.True(t, s.DriverInstalled(testDriver))

	s.SetCurrentDirEntry(CurrentDirEntry{Drive: 'A', Type: RemoteDriveType})
	assert.Equal(t, []byte{'A'}, s.FindDriverEntry(testDriver))

	require.NoError(s.UnlinkDriver(testDriver))
	assert.False(t, s.DriverInstalled(testDriver))
	assert.Nil(t, s.FindDriverEntry(testDriver))
}

func TestSimulatedOpenFileBusyTracking(t *testing.T) {
	s := NewSimulated('Z')
	assert.False(t, s.AnyOpenFileUsesUnit(0))

	s.OpenFile(0)
	assert.True(t, s.AnyOpenFileUsesUnit(0))

	s.OpenFile(0)
	s.CloseFile(0)
	assert.True(t, s.AnyOpenFileUsesUnit(0))

	s.CloseFile(0)
	assert.False(t, s.AnyOpenFileUsesUnit(0))
}

func TestSimulatedNetworkingLoadedToggle(t *testing.T) {
	s := NewSimulated('Z')
	assert.True(t, s.NetworkingLoaded())
	s.SetNetworkingLoaded(false)
	assert.False(t, s.NetworkingLoaded())
}
