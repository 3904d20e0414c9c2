package schema

import (
	schemaService "mensa-go-worker/services/schema"
	"mensa-go-worker/structs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type Controller struct {
	DB *gorm.DB
}

func (s *Controller) Run(c *gin.Context) {
	var param structs.SchemaParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "dberror": err.Error()})
		return
	}
	result, err := schemaService.Run(s.DB, param.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "dberror": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
