package models

import (
	"gorm.io/gorm"
)

// Days a schedule slot may name.
var ScheduleDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Location is a spot where the truck parks, with its weekly schedule.
type Location struct {
	gorm.Model
	Name      string         `json:"name" gorm:"not null"`
	Address   string         `json:"address" gorm:"not null"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	IsActive  bool           `json:"is_active" gorm:"index"`
	Schedule  []ScheduleSlot `json:"schedule" gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`
}

// ScheduleSlot is one day's opening window at a location. Times are "HH:MM".
type ScheduleSlot struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	LocationID uint   `json:"-" gorm:"not null;index"`
	Day        string `json:"day" gorm:"not null;index"`
	StartTime  string `json:"start_time" gorm:"not null"`
	EndTime    string `json:"end_time" gorm:"not null"`
	IsActive   bool   `json:"is_active"`
}
