package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment stores metadata about an assessment photo uploaded for a Report.
// The actual file resides in S3; authorization follows the report's chain
// (Attachment -> Report -> Profile).
type Attachment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID    primitive.ObjectID `bson:"reportId" json:"reportId"`       // Link back to the report
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`           // The unique key in the S3 bucket - internal use
	FileName    string             `bson:"fileName" json:"fileName"`       // Original filename provided by the uploader
	ContentType string             `bson:"contentType" json:"contentType"` // MIME type (e.g., "image/jpeg")
	Size        int64              `bson:"size" json:"size"`               // File size in bytes
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
