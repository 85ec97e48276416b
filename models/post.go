package models

import (
	"time"
)

type Post struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"text" gorm:"type:text;not null"`
	// PubDate is set once at creation and never updated; feeds sort on it
	// descending.
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	Image    string    `json:"image" gorm:"size:500"`
	AuthorID string    `json:"author_id" gorm:"not null;size:191;index"`
	GroupID  *uint     `json:"group_id" gorm:"index"`

	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Group    *Group    `json:"group" gorm:"foreignKey:GroupID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:PostID"`
}
