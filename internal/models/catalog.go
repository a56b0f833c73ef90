package models

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry that order lines point at.
type Item struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ItemName  string          `gorm:"size:255;not null" json:"item_name"`
	ItemPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"item_price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i Item) String() string {
	return i.ItemName
}

// Validate checks the fields an admin may set on a catalog item.
func (i *Item) Validate() error {
	errs := FieldErrors{}
	i.ItemName = strings.TrimSpace(i.ItemName)
	if i.ItemName == "" {
		errs.Add("item_name", "This field is required.")
	} else if utf8.RuneCountInString(i.ItemName) > 255 {
		errs.Add("item_name", "Ensure this field has no more than 255 characters.")
	}
	if i.ItemPrice.IsNegative() {
		errs.Add("item_price", "Ensure this value is greater than or equal to 0.")
	}
	return errs.Err()
}

// Customer owns orders. Orders may also be placed by guests.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;index" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Customer) String() string {
	return c.Username
}

func (c *Customer) Validate() error {
	errs := FieldErrors{}
	c.Username = strings.TrimSpace(c.Username)
	c.Email = strings.TrimSpace(c.Email)
	if c.Username == "" {
		errs.Add("username", "This field is required.")
	} else if utf8.RuneCountInString(c.Username) > 150 {
		errs.Add("username", "Ensure this field has no more than 150 characters.")
	}
	if c.Email != "" && !validEmail(c.Email) {
		errs.Add("email", "Enter a valid email address.")
	}
	return errs.Err()
}

// validEmail accepts a bare address only, not a "Name <addr>" form.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// OrderStatus is a named lifecycle label attachable to an order.
type OrderStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (s OrderStatus) String() string {
	return s.Name
}

func (s *OrderStatus) Validate() error {
	errs := FieldErrors{}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		errs.Add("name", "This field is required.")
	} else if utf8.RuneCountInString(s.Name) > 50 {
		errs.Add("name", "Ensure this field has no more than 50 characters.")
	}
	return errs.Err()
}
