package memory

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyedLocks serializes writers of the same key while letting different
// keys proceed in parallel (modulo stripe collisions).
type keyedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyedLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
