package models

import (
	"strings"

	dErrors "ireporter/pkg/domain-errors"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	maxLocationLen    = 200
)

type CreateRecordRequest struct {
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (r *CreateRecordRequest) Normalize() {
	if r == nil {
		return
	}
	r.Type = Type(strings.TrimSpace(strings.ToLower(string(r.Type))))
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Title) > maxTitleLen {
		return dErrors.New(dErrors.CodeValidation, "title must be 200 characters or less")
	}
	if len(r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, "description must be 5000 characters or less")
	}
	if len(r.Location) > maxLocationLen {
		return dErrors.New(dErrors.CodeValidation, "location must be 200 characters or less")
	}
	if r.Type == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be red-flag or intervention")
	}
	return nil
}

// UpdateRecordRequest carries optional content edits; nil means unchanged.
// Status is deliberately absent: it has its own operation.
type UpdateRecordRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func (r *UpdateRecordRequest) Normalize() {
	if r == nil {
		return
	}
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	r.Title = trim(r.Title)
	r.Description = trim(r.Description)
	r.Location = trim(r.Location)
}

func (r *UpdateRecordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Title == nil && r.Description == nil && r.Location == nil {
		return dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	if r.Title != nil {
		if len(*r.Title) > maxTitleLen {
			return dErrors.New(dErrors.CodeValidation, "title must be 200 characters or less")
		}
		if *r.Title == "" {
			return dErrors.New(dErrors.CodeValidation, "title cannot be empty")
		}
	}
	if r.Description != nil && len(*r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeValidation, "description must be 5000 characters or less")
	}
	if r.Location != nil && len(*r.Location) > maxLocationLen {
		return dErrors.New(dErrors.CodeValidation, "location must be 200 characters or less")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = Status(strings.TrimSpace(strings.ToLower(string(r.Status))))
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of: under investigation, resolved, rejected")
	}
	return nil
}
