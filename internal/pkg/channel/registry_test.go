package channel

import (
	"sync"
	"testing"
)

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()

	if r.IsOnline(1) {
		t.Error("fresh registry should have no one online")
	}

	s1 := r.Add(1)
	s2 := r.Add(1)
	if !r.IsOnline(1) {
		t.Error("user 1 should be online")
	}
	if got := r.SessionCount(1); got != 2 {
		t.Errorf("session count = %d, want 2", got)
	}

	r.Remove(s1)
	if !r.IsOnline(1) {
		t.Error("user 1 should still be online with one session left")
	}

	r.Remove(s2)
	if r.IsOnline(1) {
		t.Error("user 1 should be offline after last session removed")
	}

	// 重复注销与 nil 注销均为空操作
	r.Remove(s2)
	r.Remove(nil)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			s := r.Add(uid % 5)
			r.IsOnline(uid % 5)
			r.Remove(s)
		}(uint64(i))
	}
	wg.Wait()

	for uid := uint64(0); uid < 5; uid++ {
		if r.IsOnline(uid) {
			t.Errorf("user %d should be offline after all sessions removed", uid)
		}
	}
}
