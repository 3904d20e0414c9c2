package models

type Comment struct {
	ID      int64  `gorm:"column:id;primary_key" json:"id"`
	MealID  int64  `gorm:"column:meal_id;not null" json:"meal_id"`
	Score   int    `gorm:"column:score;not null" json:"score"`
	Comment string `gorm:"column:comment;type:varchar(1000)" json:"comment"`
}

// TableName sets the insert table name for this struct type
func (c *Comment) TableName() string {
	return "comments"
}
