package comment

import (
	"mensa-go-worker/models"
	"mensa-go-worker/structs"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Store interface {
	InsertComment(comment *models.Comment) error
}

type Controller struct {
	Store Store
}

func (m *Controller) Create(c *gin.Context) {
	var param structs.CommentParam
	if err := c.ShouldBindJSON(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	comment := models.Comment{MealID: param.MealID, Score: param.Score, Comment: param.Comment}
	if err := m.Store.InsertComment(&comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "dberror": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comment})
}
