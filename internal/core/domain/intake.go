// internal/core/domain/intake.go
package domain

import "github.com/google/uuid"

// DeliveryLine is one delivered item, credited to the medicine of that name.
type DeliveryLine struct {
	Name     string
	Quantity int
}

// ImportRow is one parsed row of a stock sheet. Row is the sheet row number.
type ImportRow struct {
	Row      int
	Medicine *Medicine
}

// IntakeOutcome reports what a stock intake job changed. Duplicate is set
// when the job id had already been applied and nothing was written.
type IntakeOutcome struct {
	Duplicate    bool        `json:"duplicate,omitempty"`
	Created      int         `json:"created"`
	Updated      int         `json:"updated"`
	UnitsAdded   int         `json:"units_added"`
	UnknownNames []string    `json:"unknown_names,omitempty"`
	Rejected     []string    `json:"rejected,omitempty"`
	Touched      []uuid.UUID `json:"-"`
}

// Touch records a medicine whose stock or details changed.
func (o *IntakeOutcome) Touch(id uuid.UUID) {
	for _, t := range o.Touched {
		if t == id {
			return
		}
	}
	o.Touched = append(o.Touched, id)
}
