package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedJob(stockID uint) Job {
	return Job{
		ID:         "00000000-0000-0000-0000-000000000001",
		StockID:    stockID,
		EnqueuedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewRedisQueue_Defaults(t *testing.T) {
	t.Parallel()

	q := NewRedisQueue(nil, "", nil, 0)

	assert.Equal(t, DefaultRedisKey, q.key)
	assert.Equal(t, 1, q.workers)
	assert.Equal(t, 5*time.Second, q.pollTimeout)
}

func TestRedisQueue_Schedule(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	q := NewRedisQueue(rdb, "jobs", nil, 1)
	q.newJob = fixedJob

	payload, _ := json.Marshal(fixedJob(9))
	mock.ExpectLPush("jobs", payload).SetVal(1)

	require.NoError(t, q.Schedule(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueue_Schedule_RedisError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	q := NewRedisQueue(rdb, "jobs", nil, 1)
	q.newJob = fixedJob

	payload, _ := json.Marshal(fixedJob(9))
	mock.ExpectLPush("jobs", payload).SetErr(errors.New("READONLY"))

	assert.Error(t, q.Schedule(context.Background(), 9))
}

func TestRedisQueue_Schedule_Closed(t *testing.T) {
	t.Parallel()

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	q := NewRedisQueue(rdb, "jobs", nil, 1)
	require.NoError(t, q.Close(context.Background()))

	assert.ErrorIs(t, q.Schedule(context.Background(), 1), ErrQueueClosed)
}

func TestRedisQueue_WorkerDispatchesJobs(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	payload, _ := json.Marshal(fixedJob(5))

	received := make(chan Job, 1)
	q := NewRedisQueue(rdb, "jobs", func(ctx context.Context, job Job) error {
		received <- job
		return nil
	}, 1)
	q.pollTimeout = 100 * time.Millisecond
	q.backoff = 10 * time.Millisecond

	mock.ExpectBRPop(100*time.Millisecond, "jobs").RedisNil()
	mock.ExpectBRPop(100*time.Millisecond, "jobs").SetVal([]string{"jobs", "{broken"})
	mock.ExpectBRPop(100*time.Millisecond, "jobs").SetVal([]string{"jobs", string(payload)})

	q.Start(context.Background())

	select {
	case job := <-received:
		assert.Equal(t, fixedJob(5), job)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not dispatched")
	}

	require.NoError(t, q.Close(context.Background()))
}
