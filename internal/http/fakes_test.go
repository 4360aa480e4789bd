package http

import (
	"context"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
)

type fakeQueue struct {
	mu         sync.Mutex
	tasks      []backlite.Task
	statuses   map[string]backlite.TaskStatus
	enqueueErr error
	statusErr  error
	pingErr    error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{statuses: make(map[string]backlite.TaskStatus)}
}

func (q *fakeQueue) Enqueue(_ context.Context, task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return "", q.enqueueErr
	}
	q.tasks = append(q.tasks, task)
	return "task-1", nil
}

func (q *fakeQueue) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	if q.statusErr != nil {
		return 0, q.statusErr
	}
	status, ok := q.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

func (q *fakeQueue) Ping(context.Context) error { return q.pingErr }

type fakeScheduler struct {
	running bool
	next    *time.Time
	runID   string
	err     error
}

func (s *fakeScheduler) RunNow(context.Context) (string, error) { return s.runID, s.err }
func (s *fakeScheduler) IsRunning() bool                        { return s.running }
func (s *fakeScheduler) NextRunTime() *time.Time                { return s.next }
