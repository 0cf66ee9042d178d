package model

import "time"

// Post is an entry written by a user.
type Post struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title   string `json:"title" gorm:"size:255;not null"`
	Content string `json:"content" gorm:"type:text;not null"`
	// CreatedAt and UserID are set once on insert and never written again.
	CreatedAt time.Time `json:"created_at" gorm:"<-:create;autoCreateTime;not null;index"`
	UserID    uint      `json:"user_id" gorm:"<-:create;not null;index"`

	// Relations
	User User  `json:"-" gorm:"foreignKey:UserID"`
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:post_tags"`
}

// FriendlyDate renders CreatedAt the way post pages show it.
func (p *Post) FriendlyDate() string {
	return p.CreatedAt.Format("Mon Jan 2 2006, 3:04 PM")
}

// HasTag reports whether the post carries a tag with the given id.
func (p *Post) HasTag(tagID uint) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
