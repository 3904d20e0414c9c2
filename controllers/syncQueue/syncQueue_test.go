package syncQueue

import (
	"context"
	"mensa-go-worker/enums"
	"mensa-go-worker/services/ingest"
	"mensa-go-worker/structs"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	calls   int
	req     structs.SyncRequest
	taskID  uint
	operate string
}

func (f *fakeRunner) RunAndLog(_ context.Context, req structs.SyncRequest, taskID uint, operate string) (ingest.RunReport, error) {
	f.calls++
	f.req = req
	f.taskID = taskID
	f.operate = operate
	return ingest.RunReport{}, nil
}

func TestHandle(t *testing.T) {
	runner := &fakeRunner{}
	Handle(runner, "mensa-sync", []byte(`{"task_id":5,"locations":["MensaStrana"],"days":3,"queue_type":"mensa-sync"}`))

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, uint(5), runner.taskID)
	assert.Equal(t, enums.QueueOperate, runner.operate)
	assert.Equal(t, structs.SyncRequest{Locations: []string{"MensaStrana"}, Days: 3}, runner.req)
}

func TestHandleEmptyBodyRunsEverything(t *testing.T) {
	runner := &fakeRunner{}
	Handle(runner, "mensa-sync", nil)

	assert.Equal(t, 1, runner.calls)
	assert.Empty(t, runner.req.Locations)
}

func TestHandleDropsBadMessages(t *testing.T) {
	runner := &fakeRunner{}
	Handle(runner, "mensa-sync", []byte(`{not json`))
	Handle(runner, "mensa-sync", []byte(`{"queue_type":"dish"}`))

	assert.Equal(t, 0, runner.calls)
}
