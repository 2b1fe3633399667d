package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierSingleSlot(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Stop()

	n.Success("first")
	n.Error("second")

	note, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", note.Message)
	assert.Equal(t, TypeError, note.Type)
}

func TestNotifierAutoDismiss(t *testing.T) {
	n := NewNotifier(20 * time.Millisecond)

	n.Info("hello")
	_, ok := n.Current()
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestNotifierNewMessageRestartsTimer(t *testing.T) {
	n := NewNotifier(80 * time.Millisecond)
	defer n.Stop()

	n.Info("old")
	time.Sleep(50 * time.Millisecond)
	n.Info("new")
	time.Sleep(50 * time.Millisecond)

	note, ok := n.Current()
	require.True(t, ok, "the first timer must not clear the newer message")
	assert.Equal(t, "new", note.Message)
}

func TestNotifierDismissAndDefaults(t *testing.T) {
	n := NewNotifier(0)
	assert.Equal(t, DefaultTTL, n.ttl)

	n.Success("x")
	n.Dismiss()
	_, ok := n.Current()
	assert.False(t, ok)
}

func TestRecorderSubscribesToEveryNotification(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Stop()
	rec := NewRecorder(2)
	n.Subscribe(rec.Record)

	n.Success("a")
	n.Error("b")
	n.Info("c")

	assert.Equal(t, []string{"b", "c"}, rec.Messages())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, TypeInfo, last.Type)
	assert.Len(t, rec.All(), 2)
}
