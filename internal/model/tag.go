package model

// Tag is a label that can be attached to any number of posts.
type Tag struct {
	ID  uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Tag string `json:"tag" gorm:"column:tag;size:100;not null;uniqueIndex"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

// PostTag is the post_tags join row: post P carries tag T.
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

// TableName pins the join table name shared with the many2many relations.
func (PostTag) TableName() string {
	return "post_tags"
}
