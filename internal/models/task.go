package models

import (
	"time"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryWork     Category = "WORK"
	CategoryPersonal Category = "PERSONAL"
)

// Valid reports whether the category is one of the two known values.
func (c Category) Valid() bool {
	return c == CategoryWork || c == CategoryPersonal
}

// Task is owned by exactly one user. Rank orders tasks within their
// (owner, done, category) partition; CompletedAt is set iff Done is true.
// The rank column is named sort_rank because RANK is reserved in MySQL 8.
type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	OwnerID     uint64         `gorm:"not null;index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Category    Category       `gorm:"type:varchar(20);not null;default:'PERSONAL'" json:"category"`
	Done        bool           `gorm:"not null;default:false" json:"done"`
	DueDate     *time.Time     `json:"dueDate"`
	CompletedAt *time.Time     `json:"completedAt"`
	Rank        int            `gorm:"column:sort_rank;not null;default:0" json:"order"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
