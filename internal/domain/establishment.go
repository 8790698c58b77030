package domain

import (
	"strings"
	"time"
)

type PlanTier string

const (
	PlanBronze PlanTier = "bronze"
	PlanPrata  PlanTier = "prata"
	PlanOuro   PlanTier = "ouro"
)

// Valid reports whether p is one of the known tiers. Tiers are labels only.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanBronze, PlanPrata, PlanOuro:
		return true
	}
	return false
}

type Establishment struct {
	ID           int64
	UserID       int64 // owner
	Name         string
	Description  string
	Address      string
	Neighborhood string
	Phone        string
	WhatsApp     string
	Type         string // free text: Boteco, Choperia, Petiscaria...
	IsOpen       bool
	Latitude     *float64
	Longitude    *float64
	ImageURL     string
	MenuURL      string
	Website      string
	Instagram    string
	PlanType     PlanTier
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContactPhone is the number automation messages go to.
func (e Establishment) ContactPhone() string {
	if e.WhatsApp != "" {
		return e.WhatsApp
	}
	return e.Phone
}

// Validate checks the fields required on creation.
func (e Establishment) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"name", e.Name},
		{"address", e.Address},
		{"neighborhood", e.Neighborhood},
		{"type", e.Type},
	} {
		if strings.TrimSpace(f.val) == "" {
			return Invalid(f.name, "required field")
		}
	}
	if e.PlanType != "" && !e.PlanType.Valid() {
		return Invalid("plan_type", "must be one of bronze, prata, ouro")
	}
	return nil
}

// EstablishmentPatch carries a partial update; nil fields are left untouched.
type EstablishmentPatch struct {
	Name         *string
	Description  *string
	Address      *string
	Neighborhood *string
	Phone        *string
	WhatsApp     *string
	Type         *string
	IsOpen       *bool
	Latitude     *float64
	Longitude    *float64
	ImageURL     *string
	MenuURL      *string
	Website      *string
	Instagram    *string
	PlanType     *PlanTier
	IsApproved   *bool
}

func (p EstablishmentPatch) Empty() bool { return p == EstablishmentPatch{} }

// Validate rejects patches that would blank a required field.
func (p EstablishmentPatch) Validate() error {
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"name", p.Name},
		{"address", p.Address},
		{"neighborhood", p.Neighborhood},
		{"type", p.Type},
	} {
		if f.val != nil && strings.TrimSpace(*f.val) == "" {
			return Invalid(f.name, "must not be empty")
		}
	}
	if p.PlanType != nil && !p.PlanType.Valid() {
		return Invalid("plan_type", "must be one of bronze, prata, ouro")
	}
	return nil
}

// Apply copies the set fields of p onto e.
func (p EstablishmentPatch) Apply(e *Establishment) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&e.Name, p.Name)
	setStr(&e.Description, p.Description)
	setStr(&e.Address, p.Address)
	setStr(&e.Neighborhood, p.Neighborhood)
	setStr(&e.Phone, p.Phone)
	setStr(&e.WhatsApp, p.WhatsApp)
	setStr(&e.Type, p.Type)
	setStr(&e.ImageURL, p.ImageURL)
	setStr(&e.MenuURL, p.MenuURL)
	setStr(&e.Website, p.Website)
	setStr(&e.Instagram, p.Instagram)
	if p.IsOpen != nil {
		e.IsOpen = *p.IsOpen
	}
	if p.Latitude != nil {
		v := *p.Latitude
		e.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		e.Longitude = &v
	}
	if p.PlanType != nil {
		e.PlanType = *p.PlanType
	}
	if p.IsApproved != nil {
		e.IsApproved = *p.IsApproved
	}
}

type Image struct {
	ID              int64
	EstablishmentID int64
	URL             string
	IsPrimary       bool
	CreatedAt       time.Time
}

func (i Image) Validate() error {
	if strings.TrimSpace(i.URL) == "" {
		return Invalid("image_url", "required field")
	}
	return nil
}

type Stats struct {
	Total    int
	Approved int
	Open     int
}
