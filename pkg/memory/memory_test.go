package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tuned-app/tuned/pkg/memory"
	"github.com/tuned-app/tuned/pkg/model"
)

func TestUnknownSessionIsEmpty(t *testing.T) {
	store := memory.New()
	exchanges, err := store.Read(context.Background(), "nobody")
	gt.NoError(t, err)
	gt.A(t, exchanges).Length(0)
}

func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	gt.NoError(t, store.Append(ctx, "session-a", "question for a", "answer for a"))
	gt.NoError(t, store.Append(ctx, "session-b", "question for b", "answer for b"))

	a, err := store.Read(ctx, "session-a")
	gt.NoError(t, err)
	gt.A(t, a).Length(1)
	gt.Equal(t, a[0].Question, "question for a")

	b, err := store.Read(ctx, "session-b")
	gt.NoError(t, err)
	gt.A(t, b).Length(1)
	gt.Equal(t, b[0].Answer, "answer for b")
}

func TestReadBoundedToLastFive(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	for i := 0; i < 8; i++ {
		gt.NoError(t, store.Append(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	exchanges, err := store.Read(ctx, "s1")
	gt.NoError(t, err)
	gt.A(t, exchanges).Length(5)
	// Oldest first: q3..q7.
	gt.Equal(t, exchanges[0].Question, "q3")
	gt.Equal(t, exchanges[4].Question, "q7")
}

func TestBlankSessionIDSharesDefaultThread(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	gt.NoError(t, store.Append(ctx, "", "hello", "world"))
	exchanges, err := store.Read(ctx, "  ")
	gt.NoError(t, err)
	gt.A(t, exchanges).Length(1)
}

func TestConcurrentSessionCreation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := model.SessionID(fmt.Sprintf("session-%d", n))
			for j := 0; j < 10; j++ {
				_ = store.Append(ctx, id, fmt.Sprintf("q%d", j), fmt.Sprintf("a%d", j))
				_, _ = store.Read(ctx, id)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		id := model.SessionID(fmt.Sprintf("session-%d", i))
		exchanges, err := store.Read(ctx, id)
		gt.NoError(t, err)
		gt.A(t, exchanges).Length(5)
	}
}
