package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Name      string    `json:"name" gorm:"size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Posts    []Post    `json:"posts" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:AuthorID"`
}

// Follow is a directed edge: UserID follows AuthorID. The composite unique
// index makes the pair insert-once; follow creation relies on it together
// with a conflict-tolerant insert.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_follows_user_author"`
	AuthorID  string    `json:"author_id" gorm:"not null;size:191;uniqueIndex:uk_follows_user_author"`
	CreatedAt time.Time `json:"created_at"`

	User   User `json:"user" gorm:"foreignKey:UserID"`
	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}
