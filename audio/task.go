package audio

import "container/heap"

// taskKind identifies one step of a voice's scheduled lifetime
type taskKind int

const (
	taskAttack taskKind = iota
	taskRelease
	taskZeroRamp
	taskStopOsc
	taskDispose
)

// task is one deferred voice-lifecycle step, keyed by absolute engine time.
// Within a voice the kinds are scheduled at strictly increasing times:
// attack < release < zero-ramp < stop < dispose.
type task struct {
	at    float64 // engine seconds
	seq   uint64  // tie-break: schedule order
	kind  taskKind
	voice *voice
}

// taskQueue is a min-heap of tasks ordered by (at, seq)
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// push schedules a task (caller holds the engine lock)
func (q *taskQueue) push(t *task) {
	heap.Push(q, t)
}

// popDue removes and returns the earliest task at or before now, or nil
func (q *taskQueue) popDue(now float64) *task {
	if len(*q) == 0 || (*q)[0].at > now {
		return nil
	}
	return heap.Pop(q).(*task)
}
