package models

import "time"

// Vote records that a user has upvoted an answer. The unique index on
// (answer_id, user_id) is the durable at-most-one-vote guarantee.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"uniqueIndex:idx_answer_user;not null" json:"answer_id"`
	UserID    string    `gorm:"uniqueIndex:idx_answer_user;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
