package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
)

func TestLoadEmptyForNewUser(t *testing.T) {
	s := NewStore(10, 1)
	got := s.Load("alice")
	require.Empty(t, got.Turns)
}

func TestAppendAndLoad(t *testing.T) {
	s := NewStore(10, 1)
	unlock := s.Lock("alice")
	s.Append("alice", domain.TurnRecord{Answer: "first"})
	unlock()

	got := s.Load("alice")
	require.Len(t, got.Turns, 1)
	require.Equal(t, "first", got.Turns[0].Answer)
}

func TestAppendTrimsToMaxHistory(t *testing.T) {
	s := NewStore(3, 1)
	for i := 0; i < 5; i++ {
		unlock := s.Lock("alice")
		s.Append("alice", domain.TurnRecord{Answer: string(rune('a' + i))})
		unlock()
	}
	got := s.Load("alice")
	require.Len(t, got.Turns, 3)
	require.Equal(t, "c", got.Turns[0].Answer)
	require.Equal(t, "e", got.Turns[2].Answer)
}

func TestDifferentUsersAreIndependent(t *testing.T) {
	s := NewStore(10, 1)
	unlockA := s.Lock("alice")
	s.Append("alice", domain.TurnRecord{Answer: "a1"})
	unlockA()

	unlockB := s.Lock("bob")
	s.Append("bob", domain.TurnRecord{Answer: "b1"})
	unlockB()

	require.Len(t, s.Load("alice").Turns, 1)
	require.Len(t, s.Load("bob").Turns, 1)
}

func TestLockSerialisesSameUserAtLimitOne(t *testing.T) {
	s := NewStore(10, 1)
	var active int32
	var maxSeen int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock("alice")
			defer unlock()
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, maxSeen)
	require.Len(t, s.Load("alice").Turns, 0)
}

func TestLockAdmitsUpToConfiguredConcurrency(t *testing.T) {
	s := NewStore(10, 3)
	var active int32
	var maxSeen int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock("alice")
			defer unlock()
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.GreaterOrEqual(t, maxSeen, int32(2))
	require.LessOrEqual(t, maxSeen, int32(3))
}
