package models

import "time"

type Meal struct {
	ID          int64      `gorm:"column:id;primary_key;auto_increment:false" json:"id"`
	PlanID      int64      `gorm:"column:plan_id;not null" json:"plan_id"`
	German      string     `gorm:"column:german;type:varchar(255);not null" json:"german"`
	Category    string     `gorm:"column:category;type:varchar(255);not null" json:"category"`
	PriceS      *float64   `gorm:"column:price_s" json:"price_s"`
	PriceM      *float64   `gorm:"column:price_m" json:"price_m"`
	PriceG      *float64   `gorm:"column:price_g" json:"price_g"`
	PriceAll    *float64   `gorm:"column:price_all" json:"price_all"`
	Pig         bool       `gorm:"column:pig" json:"pig"`
	Alcohol     bool       `gorm:"column:alcohol" json:"alcohol"`
	Vegetarian  bool       `gorm:"column:vegetarian" json:"vegetarian"`
	Beef        bool       `gorm:"column:beef" json:"beef"`
	ImgSmallURL *string    `gorm:"column:img_small_url;type:varchar(255)" json:"img_small_url"`
	ImgBigURL   *string    `gorm:"column:img_big_url;type:varchar(255)" json:"img_big_url"`
	Date        *time.Time `gorm:"column:date" json:"date"`

	// fetched image payloads, never persisted
	ImgSmallData []byte `gorm:"-" json:"-"`
	ImgBigData   []byte `gorm:"-" json:"-"`

	// set when the feed entry could not be read; such a meal is never inserted
	Invalid error `gorm:"-" json:"-"`
}

// TableName sets the insert table name for this struct type
func (m *Meal) TableName() string {
	return "meals"
}
