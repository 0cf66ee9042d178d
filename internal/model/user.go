package model

import "gorm.io/gorm"

// DefaultImageURL is stored when a user is created without an image.
const DefaultImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/a/ac/No_image_available.svg/1024px-No_image_available.svg.png"

// User is a blog author.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"first_name" gorm:"size:30;not null"`
	LastName  string `json:"last_name" gorm:"size:30;not null"`
	ImageURL  string `json:"image_url" gorm:"size:150"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID"`
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// BeforeCreate applies the placeholder image when none was given.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	return nil
}
