package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerPool(t *testing.T) {
	assert := assert.New(t)

	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(time.Second)
		assert.NotNil(timer1)
		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		assert.NotNil(timer2)
		<-timer2.C
	})

	t.Run("Put Active Timer", func(t *testing.T) {
		timer1 := GetTimer(100 * time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		PutTimer(timer1)

		begin := time.Now()
		timer2 := GetTimer(150 * time.Millisecond)
		select {
		case fired := <-timer2.C:
			assert.GreaterOrEqual(fired.Sub(begin), 120*time.Millisecond)
		case <-time.After(400 * time.Millisecond):
			t.Error("timer2 should have fired")
		}
	})

	t.Run("Concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				timer := GetTimer(5 * time.Millisecond)
				defer PutTimer(timer)
				<-timer.C
			}()
		}
		wg.Wait()
	})
}

func TestSleep(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		begin := time.Now()
		require.NoError(t, Sleep(context.Background(), 30*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(begin), 25*time.Millisecond)
	})

	t.Run("zero duration", func(t *testing.T) {
		require.NoError(t, Sleep(context.Background(), 0))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Sleep(ctx, time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}
