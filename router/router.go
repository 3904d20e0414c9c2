package router

import (
	"mensa-go-worker/controllers/check"
	"mensa-go-worker/controllers/comment"
	"mensa-go-worker/controllers/mensaSync"
	"mensa-go-worker/controllers/readProbe"
	"mensa-go-worker/controllers/schema"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Check   *check.Checker
	Sync    *mensaSync.Controller
	Comment *comment.Controller
	Schema  *schema.Controller
}

func Router(c Controllers) *gin.Engine {
	route := gin.Default()

	route.GET("/read-probe", readProbe.Probe)
	if c.Check != nil {
		route.GET("/check-live", c.Check.CheckAlive)
	}
	if c.Sync != nil {
		route.POST("/sync", c.Sync.Sync)
	}
	if c.Comment != nil {
		route.POST("/comments", c.Comment.Create)
	}
	if c.Schema != nil {
		route.POST("/schema", c.Schema.Run)
	}

	return route
}
