package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Gender is the enumerated patient gender accepted by the intake screen.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

const (
	MinAge = 0
	MaxAge = 99
)

// Valid reports whether g is one of the accepted genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ParseAge parses s as a base-10 integer, ignoring surrounding whitespace, and
// enforces the [MinAge, MaxAge] range.
func ParseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinAge || n > MaxAge {
		return 0, WithMessage(ErrValidation, fmt.Sprintf("Age must be between %d and %d.", MinAge, MaxAge))
	}
	return n, nil
}

// OwnerRef is the user that registered a patient. The remote service returns
// it either populated, as a bare id string, or null.
type OwnerRef struct {
	ID         string `json:"_id,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// DisplayName resolves the owner for reports: name, then employee id, then "N/A".
func (o *OwnerRef) DisplayName() string {
	if o == nil {
		return "N/A"
	}
	if o.FirstName != "" {
		return o.FirstName
	}
	if o.EmployeeID != "" {
		return o.EmployeeID
	}
	return "N/A"
}

func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &o.ID)
	}
	type plain OwnerRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = OwnerRef(p)
	return nil
}

// Patient is a registered pathology sample. PathID doubles as the barcode payload.
type Patient struct {
	ID          string    `json:"_id,omitempty"`
	PathID      string    `json:"pathId"`
	UHID        string    `json:"uhid"`
	PatientName string    `json:"patientName"`
	Age         int       `json:"age"`
	Gender      Gender    `json:"gender"`
	Barcode     string    `json:"barcode,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Owner       *OwnerRef `json:"userId,omitempty"`
}

// UnmarshalJSON tolerates numeric uhid/age values, which the remote service
// emits for records created by older clients.
func (p *Patient) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          string          `json:"_id"`
		PathID      json.RawMessage `json:"pathId"`
		UHID        json.RawMessage `json:"uhid"`
		PatientName string          `json:"patientName"`
		Age         json.RawMessage `json:"age"`
		Gender      Gender          `json:"gender"`
		Barcode     string          `json:"barcode"`
		Date        string          `json:"date"`
		Time        string          `json:"time"`
		Owner       *OwnerRef       `json:"userId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	age, err := strconv.Atoi(rawText(aux.Age))
	if err != nil && len(aux.Age) > 0 && string(aux.Age) != "null" {
		return fmt.Errorf("patient age: %w", err)
	}

	*p = Patient{
		ID:          aux.ID,
		PathID:      rawText(aux.PathID),
		UHID:        rawText(aux.UHID),
		PatientName: aux.PatientName,
		Age:         age,
		Gender:      aux.Gender,
		Barcode:     aux.Barcode,
		Date:        aux.Date,
		Time:        aux.Time,
		Owner:       aux.Owner,
	}
	return nil
}

// rawText returns a JSON string or number as plain text; null yields "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// NewPatient carries a validated intake submission plus the stamps added at submit time.
type NewPatient struct {
	PathID      string `json:"pathId"`
	UHID        string `json:"uhid"`
	PatientName string `json:"patientName"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	Barcode     string `json:"barcode"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	UserID      string `json:"userId"`
}
