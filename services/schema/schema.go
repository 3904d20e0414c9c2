package schema

import (
	"fmt"
	"mensa-go-worker/models"
	"time"

	"github.com/jinzhu/gorm"
)

const (
	ModeSetup      = "setup"
	ModeCleanup    = "cleanup"
	ModeSampleData = "sampledata"
)

// Result collects the outcome of every statement, per mode. A failed statement
// does not stop the ones after it.
type Result map[string][]string

type operation func(db *gorm.DB) []error

var operations = map[string]operation{
	ModeSetup:      setup,
	ModeCleanup:    cleanup,
	ModeSampleData: sampleData,
}

// Run executes the given modes in order.
func Run(db *gorm.DB, modes []string) (Result, error) {
	if len(modes) == 0 {
		return nil, fmt.Errorf("no operation selected")
	}
	for _, mode := range modes {
		if _, ok := operations[mode]; !ok {
			return nil, fmt.Errorf("unknown operation %s", mode)
		}
	}

	result := Result{}
	for _, mode := range modes {
		result[mode] = []string{}
		for _, err := range operations[mode](db) {
			if err != nil {
				result[mode] = append(result[mode], err.Error())
			} else {
				result[mode] = append(result[mode], "ok")
			}
		}
	}
	return result, nil
}

func setup(db *gorm.DB) []error {
	return []error{
		db.AutoMigrate(&models.Plan{}).Error,
		db.AutoMigrate(&models.Meal{}).Model(&models.Meal{}).AddForeignKey("plan_id", "plans(id)", "RESTRICT", "RESTRICT").Error,
		db.AutoMigrate(&models.Comment{}).Model(&models.Comment{}).AddForeignKey("meal_id", "meals(id)", "RESTRICT", "RESTRICT").Error,
		db.AutoMigrate(&models.ActivityLog{}).Error,
	}
}

func cleanup(db *gorm.DB) []error {
	return []error{
		db.Exec("DROP TABLE `comments`").Error,
		db.Exec("DROP TABLE `meals`").Error,
		db.Exec("DROP TABLE `plans`").Error,
		db.Exec("DROP TABLE `activity_log`").Error,
	}
}

func sampleData(db *gorm.DB) []error {
	plan := models.Plan{MensaID: 1479835489, Date: time.Date(2018, time.March, 19, 0, 0, 0, 0, time.Local)}
	if err := db.Create(&plan).Error; err != nil {
		return []error{err}
	}
	price := 2.10
	meal := models.Meal{ID: 1, PlanID: plan.ID, German: "Brot", Category: "Essen 1", PriceG: &price}
	return []error{nil, db.Create(&meal).Error}
}
