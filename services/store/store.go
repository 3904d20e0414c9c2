package store

import (
	"encoding/json"
	"fmt"
	"mensa-go-worker/models"
	"time"

	"github.com/jinzhu/gorm"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

// PersistError wraps any failure reported by the relational store.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Op, e.Err.Error())
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// PlanStore reads and writes plans, meals and comments through a pooled gorm
// handle. It is safe for concurrent use.
type PlanStore struct {
	db *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

// ExistingPlans returns every stored (id, mensa_id, date) in one round trip.
func (s *PlanStore) ExistingPlans() ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Select("id, mensa_id, date").Find(&plans).Error; err != nil {
		return nil, &PersistError{Op: "existing plans", Err: err}
	}
	return plans, nil
}

// PersistPlan inserts a plan row and returns its generated id. Storing the same
// (date, location) twice fails on the unique index.
func (s *PlanStore) PersistPlan(locationID int64, date time.Time) (int64, error) {
	plan := models.Plan{MensaID: locationID, Date: date}
	if err := s.db.Create(&plan).Error; err != nil {
		return 0, &PersistError{Op: fmt.Sprintf("plan %d/%s", locationID, date.Format("2006-01-02")), Err: err}
	}
	return plan.ID, nil
}

// PersistMeal inserts one meal row under planID.
func (s *PlanStore) PersistMeal(planID int64, meal models.Meal) error {
	meal.PlanID = planID
	if err := s.db.Create(&meal).Error; err != nil {
		return &PersistError{Op: fmt.Sprintf("meal %d", meal.ID), Err: err}
	}
	return nil
}

// PersistMeals inserts all meals of a plan in a single statement.
func (s *PlanStore) PersistMeals(planID int64, meals []models.Meal) error {
	if len(meals) == 0 {
		return nil
	}
	records := make([]interface{}, 0, len(meals))
	for _, meal := range meals {
		meal.PlanID = planID
		records = append(records, meal)
	}
	if err := gormbulk.BulkInsert(s.db, records, 3000); err != nil {
		return &PersistError{Op: fmt.Sprintf("meals of plan %d", planID), Err: err}
	}
	return nil
}

// InsertComment stores one meal rating.
func (s *PlanStore) InsertComment(comment *models.Comment) error {
	if err := s.db.Create(comment).Error; err != nil {
		return &PersistError{Op: fmt.Sprintf("comment on meal %d", comment.MealID), Err: err}
	}
	return nil
}

// InsertActivityLog writes a run summary into the activity log table.
func (s *PlanStore) InsertActivityLog(jobname string, data interface{}) error {
	activityLogJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	insertTime := time.Now()
	var activityLogEntity models.ActivityLog
	activityLogEntity.CreatedAt = &insertTime
	activityLogEntity.UpdatedAt = &insertTime
	activityLogEntity.LogName = jobname
	activityLogEntity.Description = "mensa-go-worker log"
	activityLogEntity.Properties = string(activityLogJSON)

	if err := s.db.Create(&activityLogEntity).Error; err != nil {
		return &PersistError{Op: "activity log", Err: err}
	}
	return nil
}
