package ingest

import (
	"fmt"
	"mensa-go-worker/enums"
	"mensa-go-worker/structs"
	"time"
)

// PairResult is the final outcome of one (location, date) pipeline.
type PairResult struct {
	Location   string `json:"location"`
	LocationID int64  `json:"location_id"`
	Date       string `json:"date"`
	State      string `json:"state"`
	Step       string `json:"step,omitempty"`
	PlanID     int64  `json:"plan_id,omitempty"`
	Meals      int    `json:"meals"`
	Error      string `json:"error,omitempty"`
	Err        error  `json:"-"`
}

// RunReport lists every scheduled pipeline of one run.
type RunReport struct {
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Skipped  int          `json:"skipped"`
	Results  []PairResult `json:"results"`
}

// RunError summarizes a run in which at least one pipeline did not reach DONE.
type RunError struct {
	Total   int
	Failed  int
	Partial int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("ingest run: %d of %d pipelines failed, %d stored incomplete meals", e.Failed, e.Total, e.Partial)
}

// Err is nil only when every pipeline reached DONE.
func (r RunReport) Err() error {
	var failed, partial int
	for _, res := range r.Results {
		switch res.State {
		case enums.StateDone:
		case enums.StatePartial:
			partial++
		default:
			failed++
		}
	}
	if failed == 0 && partial == 0 {
		return nil
	}
	return &RunError{Total: len(r.Results), Failed: failed, Partial: partial}
}

// ActivityLog converts the report into the activity log payload.
func (r RunReport) ActivityLog(taskID uint, operate string) structs.ActivityLogJsonModel {
	model := structs.ActivityLogJsonModel{
		Type:     operate,
		TaskID:   taskID,
		Messages: []structs.ErrorModel{},
	}
	model.Statistic.TotalPair = len(r.Results) + r.Skipped
	model.Statistic.SkippedPair = r.Skipped
	for _, res := range r.Results {
		model.Statistic.Meals += res.Meals
		switch res.State {
		case enums.StateDone:
			model.Statistic.OKPair++
			continue
		case enums.StatePartial:
			model.Statistic.PartialPair++
		default:
			model.Statistic.FailPair++
		}
		model.Messages = append(model.Messages, structs.ErrorModel{
			Location: res.Location,
			Date:     res.Date,
			State:    res.Step,
			Message:  res.Error,
		})
	}
	model.Result = len(model.Messages) == 0
	if err := r.Err(); err != nil {
		model.Message = err.Error()
	} else {
		model.Message = "ok"
	}
	return model
}
