package check

import (
	"encoding/json"
	"fmt"
	"mensa-go-worker/services/rabbitmq"
	"mensa-go-worker/services/trackLog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success  bool      `json:"success"`
	Messsage string    `json:"message"`
	Info     CheckInfo `json:"info"`
}

type CheckInfo struct {
	Database   string   `json:"database"`
	Queues     []string `json:"queue"`
	RoutineNum int      `json:"routine_num"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	Ping() error
}

// Checker reports liveness of the store and the named queue connection.
type Checker struct {
	DB         Pinger
	Connection string
}

func (ch *Checker) CheckAlive(c *gin.Context) {
	resMsg := "main thread alive"
	checkInfo := CheckInfo{Database: "ok"}
	success := true

	if ch.DB == nil {
		checkInfo.Database = "not configured"
	} else if err := ch.DB.Ping(); err != nil {
		success = false
		checkInfo.Database = err.Error()
		trackLog.Error(fmt.Sprintf("database ping: %s", err.Error()), false)
	}

	if ch.Connection != "" {
		resMsg = ch.checkQueue(&checkInfo)
	}

	checkInfo.RoutineNum = runtime.NumGoroutine()
	trackLog.Info(fmt.Sprintf("goroutine number: %d", checkInfo.RoutineNum), false)

	c.JSON(http.StatusOK, AliveResponse{success, resMsg, checkInfo})
}

func (ch *Checker) checkQueue(checkInfo *CheckInfo) string {
	rabbitConn := rabbitmq.GetConnection(ch.Connection)
	if rabbitConn == nil {
		trackLog.Error("Get connection pool fail", false)
		return "Get connection pool fail"
	}
	resMsg := "main thread alive"
	if rabbitConn.Conn == nil {
		resMsg = "Api detect Connection lost, Reconnecting.."
		trackLog.Error(resMsg, false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	}
	if rabbitConn.Channel != nil {
		for _, q := range rabbitConn.Queues {
			queue, queueErr := rabbitConn.Channel.QueueInspect(q)
			if queueErr != nil {
				resMsg = fmt.Sprintf("Queue[%s] error: %s", q, queueErr.Error())
				trackLog.Error(resMsg, false)
				continue
			}
			queueJson, _ := json.Marshal(queue)
			checkInfo.Queues = append(checkInfo.Queues, string(queueJson))
		}
	} else {
		resMsg = "Channel get fail"
		trackLog.Error(resMsg, false)
	}

	// give a pending close notification a moment to arrive
	select {
	case err := <-rabbitConn.ApiErr:
		trackLog.Error(fmt.Sprintf("api error: %s", err.Error()), false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	case <-time.After(time.Second * 1):
	}
	return resMsg
}
