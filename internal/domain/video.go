// internal/domain/video.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default portrait dimensions applied to new uploads.
const (
	DefaultVideoWidth  = 1080
	DefaultVideoHeight = 1920
)

// Field length limits enforced on create.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 5000
)

// Transformation describes the rendition parameters of a stored video.
// Quality is optional; when set it must be between 1 and 100.
type Transformation struct {
	Width   int  `bson:"width" json:"width"`
	Height  int  `bson:"height" json:"height"`
	Quality *int `bson:"quality,omitempty" json:"quality,omitempty"`
}

// Video represents a single uploaded video document.
// UserID references the uploading user but is not enforced as a foreign key;
// the referenced user may not exist or may have been removed since.
type Video struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	VideoURL       string             `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL   string             `bson:"thumbnailUrl" json:"thumbnailUrl"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Controls       bool               `bson:"controls" json:"controls"`
	Transformation *Transformation    `bson:"transformation,omitempty" json:"transformation,omitempty"`
	Views          int64              `bson:"views" json:"views"`
	Likes          int64              `bson:"likes" json:"likes"`
	Tags           []string           `bson:"tags" json:"tags"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
