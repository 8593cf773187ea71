package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLastCallFires(t *testing.T) {
	d := New(50 * time.Millisecond)

	var calls int32
	var last atomic.Value
	for _, q := range []string{"s", "sa", "saf"} {
		q := q
		d.Trigger(func() {
			atomic.AddInt32(&calls, 1)
			last.Store(q)
		})
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "saf", last.Load())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDebouncer_NothingFiresBeforeDelay(t *testing.T) {
	d := New(200 * time.Millisecond)

	var fired int32
	start := time.Now()
	var firedAt atomic.Value
	d.Trigger(func() {
		firedAt.Store(time.Since(start))
		atomic.StoreInt32(&fired, 1)
	})

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, firedAt.Load().(time.Duration), 200*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	d := New(30 * time.Millisecond)

	var fired int32
	d.Trigger(func() { atomic.StoreInt32(&fired, 1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, New(0).Delay())
	assert.Equal(t, 300*time.Millisecond, DefaultDelay)
}
