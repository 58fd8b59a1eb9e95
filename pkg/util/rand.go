package util

import (
    "math/rand"
    "sync"
    "time"
)

// LockedRand is a math/rand source that is safe for concurrent use.
type LockedRand struct {
    mu  sync.Mutex
    rnd *rand.Rand
}

// NewLockedRand seeds a generator. Seed 0 picks a time based seed.
func NewLockedRand(seed int64) *LockedRand {
    if seed == 0 {
        seed = time.Now().UnixNano()
    }
    return &LockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform value in [0,1).
func (r *LockedRand) Float64() float64 {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.rnd.Float64()
}
