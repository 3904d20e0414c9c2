package mensaSync

import (
	"context"
	"errors"
	"io"
	"mensa-go-worker/enums"
	"mensa-go-worker/services/ingest"
	"mensa-go-worker/structs"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Runner interface {
	RunAndLog(ctx context.Context, req structs.SyncRequest, taskID uint, operate string) (ingest.RunReport, error)
}

type Controller struct {
	Runner Runner
}

// Sync runs one ingest and answers with the per pair report. A run with any
// failed pipeline answers 502 with the same body. The run is not tied to the
// request, a client hanging up does not cancel in-flight fetches.
func (s *Controller) Sync(c *gin.Context) {
	var req structs.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	report, err := s.Runner.RunAndLog(context.Background(), req, 0, enums.ManualOperate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if runErr := report.Err(); runErr != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": runErr.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok", "report": report})
}
