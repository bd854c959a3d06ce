package models

import "time"

// Tag is identified by its normalized (lower-cased) name. Name keeps the
// casing of the first question that used it.
type Tag struct {
	ID        string    `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionTag links a question to a tag. Membership is immutable once
// written; there is no retagging path.
type QuestionTag struct {
	QuestionID uint   `gorm:"primaryKey;autoIncrement:false" json:"question_id"`
	TagID      string `gorm:"primaryKey" json:"tag_id"`
}
