package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	Title      string
	Topic      string
	Status     string // draft, published, archived
	Difficulty string // beginner, intermediate, advanced
	Chapters   []Chapter
}

type Chapter struct {
	gorm.Model
	CourseID      uint `gorm:"index"`
	Title         string
	Content       string
	SequenceOrder int
}
