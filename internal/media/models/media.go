package models

import (
	"strings"
	"time"

	dErrors "ireporter/pkg/domain-errors"
)

// Kind discriminates images from videos. Each kind has its own endpoints
// but shares storage and authorization rules.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

func (k Kind) IsValid() bool {
	return k == KindImage || k == KindVideo
}

// Media is one uploaded attachment. RecordID and UploaderID are fixed at
// upload; a replace keeps the row and swaps the stored object.
type Media struct {
	PublicID    string    `json:"public_id"`
	RecordID    string    `json:"record_id"`
	UploaderID  string    `json:"uploader_id"`
	Kind        Kind      `json:"kind"`
	URL         string    `json:"url"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// KindForContentType resolves the media kind from the uploaded MIME type.
func KindForContentType(contentType string) (Kind, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "content type must be an image or video type")
	}
}
