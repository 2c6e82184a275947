package model

import (
	"errors"
	"slices"
	"sync"
	"time"
)

var ErrAlreadyQueued = errors.New("player already in queue")

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, longest waiting first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{players: []QueuedPlayer{}}
}

func (q *Queue) indexOf(playerID string) int {
	return slices.IndexFunc(q.players, func(qp QueuedPlayer) bool {
		return qp.Player.ID == playerID
	})
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOf(player.ID) >= 0 {
		return ErrAlreadyQueued
	}
	q.players = append(q.players, QueuedPlayer{Player: player, JoinedAt: time.Now()})
	return nil
}

// Remove takes a player out of the queue. It reports whether the player was
// waiting.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(playerID)
	if i < 0 {
		return false
	}
	q.players = slices.Delete(q.players, i, i+1)
	return true
}

// GetNextPair pops the two players who have been waiting longest.
// ok is false when fewer than two players are queued.
func (q *Queue) GetNextPair() (first, second Player, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}, false
	}
	first, second = q.players[0].Player, q.players[1].Player
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
