package model

import (
	"fmt"
	"sync"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/testutil"
)

func TestQueuePairsInArrivalOrder(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		testutil.AssertNoError(t, q.AddPlayer(Player{ID: id}))
	}
	testutil.AssertErrorIs(t, q.AddPlayer(Player{ID: "b"}), ErrAlreadyQueued)

	p1, p2, ok := q.GetNextPair()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, p1.ID, "a")
	testutil.AssertEqual(t, p2.ID, "b")
	testutil.AssertEqual(t, q.Size(), 1)

	_, _, ok = q.GetNextPair()
	testutil.AssertFalse(t, ok, "pair from a single player")
	testutil.AssertEqual(t, q.Size(), 1)
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		testutil.AssertNoError(t, q.AddPlayer(Player{ID: id}))
	}

	testutil.AssertTrue(t, q.Remove("a"))
	testutil.AssertFalse(t, q.Remove("a"), "removed twice")

	p1, p2, ok := q.GetNextPair()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, []string{p1.ID, p2.ID}, []string{"b", "c"})

	// a removed player may queue again
	testutil.AssertNoError(t, q.AddPlayer(Player{ID: "a"}))
}

func TestQueueConcurrentAdds(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = q.AddPlayer(Player{ID: fmt.Sprintf("player-%d", i)})
		}(i)
	}
	wg.Wait()
	testutil.AssertEqual(t, q.Size(), 50)
}
