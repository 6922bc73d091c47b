package model

import "time"

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type MoodRecord struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:uk_user_date" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);uniqueIndex:uk_user_date" json:"date"`
	Mood      string    `gorm:"type:varchar(20)" json:"mood"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string       { return "users" }
func (MoodRecord) TableName() string { return "moods" }
