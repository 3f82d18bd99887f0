package utils

import (
	"runtime"
	"sync"
	"time"
)

// Benchmark 记录两次标记之间的耗时与内存变化
type Benchmark struct {
	mutex  sync.Mutex
	start  time.Time
	memory int64
}

// NewBenchmark 创建并立即开始计时
func NewBenchmark() *Benchmark {
	b := &Benchmark{}
	b.start, b.memory = time.Now(), heapAlloc()
	return b
}

// Mark 返回距上次标记的耗时与堆内存变化，并重新开始计时
func (b *Benchmark) Mark() (time.Duration, int64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now, memory := time.Now(), heapAlloc()
	elapsed, delta := now.Sub(b.start), memory-b.memory
	b.start, b.memory = now, memory
	return elapsed, delta
}

func heapAlloc() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.HeapAlloc)
}
