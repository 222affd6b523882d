package models

import "gorm.io/gorm"

// Final-assessment tables. These are not part of the base migration: they
// only exist after the admin migrate endpoint has created them, and every
// read goes through the services.SchemaGate availability check first.

type FinalTest struct {
	gorm.Model
	CourseID     uint `gorm:"index"`
	Title        string
	PassingScore int `gorm:"default:60"` // percent required to pass
	Questions    []FinalTestQuestion
}

type FinalTestQuestion struct {
	gorm.Model
	FinalTestID   uint `gorm:"index"`
	Question      string
	Options       string // JSON array of options
	CorrectAnswer int
	SequenceOrder int
}

type FinalTestAttempt struct {
	gorm.Model
	FinalTestID uint   `gorm:"index"`
	UserID      uint   `gorm:"index"`
	AttemptRef  string `gorm:"uniqueIndex"` // opaque reference handed to the client
	Score       int
	Passed      bool
}
