package models

import "time"

type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Text       string    `gorm:"not null" json:"text"`
	Author     string    `json:"author,omitempty"` // empty means anonymous
	CreatedAt  time.Time `json:"created_at"`
}

type CreateAnswerRequest struct {
	Text string `json:"text"`
}
