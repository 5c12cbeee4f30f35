package models

import (
	"errors"
	"fmt"
	"time"
)

// VerificationStatus is the admin review state of a park
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// DocumentType names the kind of proof attached to a park
type DocumentType string

const (
	DocumentOwnershipProof DocumentType = "ownership_proof"
	DocumentLicense        DocumentType = "license"
	DocumentInsurance      DocumentType = "insurance"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentOwnershipProof, DocumentLicense, DocumentInsurance:
		return true
	}
	return false
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Address     string       `json:"address" binding:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type ParkOwner struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	Phone        string `json:"phone,omitempty"`
}

// ParkDocument references a verification proof stored elsewhere
type ParkDocument struct {
	Type       DocumentType `json:"type"`
	URL        string       `json:"url"`
	UploadedAt time.Time    `json:"uploadedAt"`
}

type OpeningHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Park is a venue registered by a park owner
type Park struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Location           Location                `json:"location"`
	Owner              ParkOwner               `json:"owner"`
	Amenities          []string                `json:"amenities"`
	VerificationStatus VerificationStatus      `json:"verificationStatus"`
	VerificationNotes  string                  `json:"verificationNotes,omitempty"`
	Documents          []ParkDocument          `json:"documents"`
	OperatingHours     map[string]OpeningHours `json:"operatingHours,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
	Version            int64                   `json:"version"`
}

func (p *Park) Validate() error {
	if p.Name == "" {
		return errors.New("park name is required")
	}
	if p.Location.Address == "" {
		return errors.New("park address is required")
	}
	if p.Owner.UserID == "" {
		return errors.New("park owner is required")
	}
	if !p.VerificationStatus.Valid() {
		return fmt.Errorf("invalid verification status %q", p.VerificationStatus)
	}
	return validateDocuments(p.Documents)
}

// ParkInput is the request body for registering or editing a park
type ParkInput struct {
	Name           string                  `json:"name" binding:"required"`
	Location       Location                `json:"location"`
	ContactEmail   string                  `json:"contactEmail" binding:"required,email"`
	Phone          string                  `json:"phone"`
	Amenities      []string                `json:"amenities"`
	Documents      []ParkDocument          `json:"documents"`
	OperatingHours map[string]OpeningHours `json:"operatingHours"`
}

func (in ParkInput) Validate() error {
	if in.Name == "" {
		return errors.New("park name is required")
	}
	if in.Location.Address == "" {
		return errors.New("park address is required")
	}
	if in.ContactEmail == "" {
		return errors.New("contact email is required")
	}
	return validateDocuments(in.Documents)
}

func validateDocuments(docs []ParkDocument) error {
	for _, d := range docs {
		if !d.Type.Valid() {
			return fmt.Errorf("invalid document type %q", d.Type)
		}
		if d.URL == "" {
			return errors.New("document URL is required")
		}
	}
	return nil
}

// ReviewInput is the admin decision on a park
type ReviewInput struct {
	Decision VerificationStatus `json:"decision" binding:"required"`
	Notes    string             `json:"notes"`
}
