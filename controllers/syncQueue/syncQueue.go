package syncQueue

import (
	"context"
	"encoding/json"
	"fmt"
	"mensa-go-worker/enums"
	"mensa-go-worker/services/ingest"
	"mensa-go-worker/services/trackLog"
	"mensa-go-worker/structs"

	"github.com/streadway/amqp"
)

type Runner interface {
	RunAndLog(ctx context.Context, req structs.SyncRequest, taskID uint, operate string) (ingest.RunReport, error)
}

// Handler returns the delivery handler of the sync queue. Each message starts
// one ingest run.
func Handler(runner Runner) func(string, amqp.Delivery) {
	return func(q string, d amqp.Delivery) {
		trackLog.Info(fmt.Sprintf("Queue[%s] received: %s", q, string(d.Body)), true)
		Handle(runner, q, d.Body)
	}
}

// Handle runs the ingest described by body. Messages addressed to another
// queue are dropped.
func Handle(runner Runner, q string, body []byte) {
	var param structs.SyncQueueParam
	if len(body) > 0 {
		if err := json.Unmarshal(body, &param); err != nil {
			trackLog.Error(fmt.Sprintf("Queue[%s] bad message: %s", q, err.Error()), true)
			return
		}
	}
	if param.QueueType != "" && param.QueueType != q {
		trackLog.Error(fmt.Sprintf("[MismatchQueue] task_id: %d, queue: %s, queue_type: %s", param.TaskID, q, param.QueueType), true)
		return
	}

	report, err := runner.RunAndLog(context.Background(), param.SyncRequest(), param.TaskID, enums.QueueOperate)
	if err != nil {
		trackLog.Error(fmt.Sprintf("Queue[%s] task_id: %d: %s", q, param.TaskID, err.Error()), true)
		return
	}
	if err := report.Err(); err != nil {
		trackLog.Error(fmt.Sprintf("Queue[%s] task_id: %d: %s", q, param.TaskID, err.Error()), true)
		return
	}
	trackLog.Info(fmt.Sprintf("Queue[%s] task_id: %d done, %d stored, %d skipped", q, param.TaskID, len(report.Results), report.Skipped), true)
}
