package chat

import (
	"hash/fnv"
	"sync"

	"SProject/tools/safe"
)

type fanoutJob struct {
	conns   []*Client
	payload []byte
}

// Fanout delivers serialized events to client send queues through a sharded
// worker pool. A connection is pinned to one shard by conn id, and each shard
// is a single goroutine draining its queue FIFO, so two broadcasts reach any
// one connection in the order they were submitted. Only delivery to different
// connections runs in parallel.
type Fanout struct {
	shards   []chan fanoutJob
	stopOnce sync.Once
}

func NewFanout(workers, queue int) *Fanout {
	if workers <= 0 {
		workers = 4
	}
	if queue <= 0 {
		queue = 1024
	}
	f := &Fanout{shards: make([]chan fanoutJob, workers)}
	for i := range f.shards {
		jobs := make(chan fanoutJob, queue)
		f.shards[i] = jobs
		safe.Go(func() {
			for job := range jobs {
				for _, c := range job.conns {
					select {
					case c.Send <- job.payload:
					default:
						// Slow client: skip rather than block the shard.
					}
				}
			}
		})
	}
	return f
}

func (f *Fanout) shardFor(connID string) int {
	h := fnv.New32a()
	h.Write([]byte(connID))
	return int(h.Sum32()) % len(f.shards)
}

// Broadcast partitions the recipients by shard and enqueues one job per
// touched shard. Enqueueing happens on the caller's goroutine, so two calls
// from the same caller land on every shared shard in call order.
func (f *Fanout) Broadcast(conns []*Client, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	if len(f.shards) == 1 {
		f.shards[0] <- fanoutJob{conns: conns, payload: payload}
		return
	}
	parts := make(map[int][]*Client)
	for _, c := range conns {
		i := f.shardFor(c.ConnID)
		parts[i] = append(parts[i], c)
	}
	for i, part := range parts {
		f.shards[i] <- fanoutJob{conns: part, payload: payload}
	}
}

func (f *Fanout) Close() {
	f.stopOnce.Do(func() {
		for _, jobs := range f.shards {
			close(jobs)
		}
	})
}
