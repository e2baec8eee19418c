package feature

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fractal-nyc/attendabot/core"
)

// Request statuses.
const (
	StatusOpen     = "open"
	StatusPlanned  = "planned"
	StatusDone     = "done"
	StatusDeclined = "declined"
)

var Statuses = []string{StatusOpen, StatusPlanned, StatusDone, StatusDeclined}

// Request is one feature request filed from the dashboard or the student portal.
type Request struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RequestedBy string    `json:"requested_by"` // user ID
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewRequest contains information needed to file a Request.
type NewRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}

// UpdateRequest defines what instructors may change on an existing Request.
type UpdateRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	Status      string `json:"status" validate:"omitempty,oneof=open planned done declined"`
}

func (ur *UpdateRequest) Validate(validate *validator.Validate, orig Request) error {
	if title := core.CleanString(ur.Title); title != "" {
		ur.Title = title
	} else {
		ur.Title = orig.Title
	}
	if desc := core.CleanString(ur.Description); desc != "" {
		ur.Description = desc
	} else {
		ur.Description = orig.Description
	}
	if ur.Status == "" {
		ur.Status = orig.Status
	}
	return validate.Struct(ur)
}
