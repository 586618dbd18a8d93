package suggest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu   sync.Mutex
	got  []string
	done chan struct{}
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{}, 10)} }

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestDebouncer_OnlyLastValueFires(t *testing.T) {
	r := newRecorder()
	d := NewDebouncer(20*time.Millisecond, r.record)

	d.Trigger("s")
	d.Trigger("ss")
	d.Trigger("ssd")
	assert.True(t, d.Pending())

	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, []string{"ssd"}, r.values())
	assert.False(t, d.Pending())
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	r := newRecorder()
	d := NewDebouncer(time.Hour, r.record)

	d.Trigger("a")
	d.Flush()
	assert.Equal(t, []string{"a"}, r.values())
	assert.False(t, d.Pending())

	d.Flush()
	assert.Len(t, r.values(), 1)

	d.Trigger("b")
	d.Stop()
	assert.False(t, d.Pending())
	d.Flush()
	assert.Equal(t, []string{"a"}, r.values())
}
