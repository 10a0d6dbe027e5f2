package model

import "time"

// Category groups tasks by area (work, health, study, etc.).
// Names are not required to be unique, even within one user.
type Category struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:CategoryID"`
}
