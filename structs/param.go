package structs

import "time"

// PlanRequest addresses one feed document: a location on a calendar date.
type PlanRequest struct {
	LocationID int64
	Date       time.Time
}

// SyncRequest narrows a run. Zero values mean all locations and the configured window.
type SyncRequest struct {
	Locations []string `json:"locations" form:"locations"`
	Days      int      `json:"days" form:"days"`
}

// SyncQueueParam is the body of a mensa-sync queue message.
type SyncQueueParam struct {
	TaskID    uint     `json:"task_id" form:"task_id"`
	Locations []string `json:"locations" form:"locations"`
	Days      int      `json:"days" form:"days"`
	QueueType string   `json:"queue_type" form:"queue_type"`
}

func (p SyncQueueParam) SyncRequest() SyncRequest {
	return SyncRequest{Locations: p.Locations, Days: p.Days}
}

type CommentParam struct {
	MealID  int64  `json:"meal_id" form:"meal_id" binding:"required"`
	Score   int    `json:"score" form:"score"`
	Comment string `json:"comment" form:"comment"`
}

type SchemaParam struct {
	Mode []string `json:"mode" form:"mode"`
}
