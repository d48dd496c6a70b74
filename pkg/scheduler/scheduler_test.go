package scheduler_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/pkg/scheduler"
)

func TestNew(t *testing.T) {
	t.Run("should return error for an invalid crontab", func(t *testing.T) {
		s, err := scheduler.New(log.NewNoop(), []*scheduler.Task{
			{Name: "broken", CronTab: "not a crontab", Func: func() error { return nil }},
		})

		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestRun(t *testing.T) {
	t.Run("should keep running tasks when one panics", func(t *testing.T) {
		ran := make(chan struct{})
		var once sync.Once
		tasks := []*scheduler.Task{
			{Name: "panicky", CronTab: "@every 10ms", Func: func() error { panic("boom") }},
			{Name: "steady", CronTab: "@every 10ms", Func: func() error {
				once.Do(func() { close(ran) })
				return nil
			}},
		}

		s, err := scheduler.New(log.NewNoop(), tasks)
		require.NoError(t, err)

		s.Run()
		defer s.Stop()

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled task did not run")
		}
	})
}
