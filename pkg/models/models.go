package models

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookBorrowed  BookStatus = "borrowed"
)

type RequestType string

const (
	RequestBorrow RequestType = "BORROW"
	RequestReturn RequestType = "RETURN"
)

func (t RequestType) Valid() bool {
	return t == RequestBorrow || t == RequestReturn
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Email     string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:'USER'" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Book's BorrowedBy/BorrowedDate are owned by the request workflow:
// set exactly when Status is BookBorrowed.
type Book struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BookUid      string     `gorm:"type:uuid;uniqueIndex;not null" json:"bookUid"`
	Title        string     `gorm:"not null" json:"title"`
	Author       string     `gorm:"not null" json:"author"`
	Isbn         string     `json:"isbn"`
	Category     string     `json:"category"`
	Publisher    string     `json:"publisher"`
	Description  string     `json:"description"`
	CoverImage   string     `json:"coverImage"`
	Status       BookStatus `gorm:"size:20;not null;default:'available'" json:"status"`
	BorrowedBy   *string    `gorm:"size:120" json:"borrowedBy,omitempty"`
	BorrowedDate *time.Time `json:"borrowedDate,omitempty"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

type BookRequest struct {
	ID            uint          `gorm:"primaryKey"`
	BookID        uint          `gorm:"not null;index"`
	UserID        uint          `gorm:"not null;index"`
	RequestType   RequestType   `gorm:"size:20;not null"`
	Status        RequestStatus `gorm:"size:20;not null;default:'PENDING';index"`
	RequestedAt   time.Time     `gorm:"not null"`
	ProcessedAt   *time.Time
	ProcessedByID *uint
	Notes         string `gorm:"size:500"`

	Book        Book  `gorm:"foreignKey:BookID"`
	User        User  `gorm:"foreignKey:UserID"`
	ProcessedBy *User `gorm:"foreignKey:ProcessedByID"`
}
