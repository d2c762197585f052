package smbclient

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerCallReturnsImmediatelyWithoutRetry(t *testing.T) {
	p := NewPacer(time.Millisecond, 10*time.Millisecond)
	calls := 0
	err := p.Call(5, func() (bool, error) {
		calls++
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPacerCallRetriesUntilSuccess(t *testing.T) {
	p := NewPacer(time.Millisecond, 2*time.Millisecond)
	calls := 0
	err := p.Call(5, func() (bool, error) {
		calls++
		if calls < 3 {
			return true, errors.New("transient")
		}
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPacerCallGivesUpAfterMaxAttempts(t *testing.T) {
	p := NewPacer(time.Millisecond, 2*time.Millisecond)
	calls := 0
	err := p.Call(3, func() (bool, error) {
		calls++
		return true, errors.New("persistent")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestPacerResetReturnsToMinSleep(t *testing.T) {
	p := NewPacer(time.Millisecond, 100*time.Millisecond)
	p.sleep = 50 * time.Millisecond
	p.Reset()
	assert.Equal(t, time.Millisecond, p.sleep)
}
