package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Error("invalid credentials")
	r.Success("Logged in")

	assert.Equal(t, []Event{
		{Level: LevelError, Message: "invalid credentials"},
		{Level: LevelSuccess, Message: "Logged in"},
	}, r.Events())

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, LevelSuccess, last.Level)
}

func TestRecorder_Concurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Info("tick")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Events(), 50)
}

func TestImplementations(t *testing.T) {
	var _ Notifier = Terminal{}
	var _ Notifier = Nop{}
	var _ Notifier = (*Recorder)(nil)
}
