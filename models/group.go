package models

type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	Description string `json:"description" gorm:"type:text"`

	Posts []Post `json:"posts" gorm:"foreignKey:GroupID"`
}
