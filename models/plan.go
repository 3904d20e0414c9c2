package models

import "time"

type Plan struct {
	ID      int64     `gorm:"column:id;primary_key" json:"id"`
	Date    time.Time `gorm:"column:date;not null;unique_index:idx_plans_date_mensa" json:"date"`
	MensaID int64     `gorm:"column:mensa_id;not null;unique_index:idx_plans_date_mensa" json:"mensa_id"`
}

// TableName sets the insert table name for this struct type
func (p *Plan) TableName() string {
	return "plans"
}
