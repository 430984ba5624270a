package medibot

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Doctor is a cardiologist available for consultation.
type Doctor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ExperienceYears int    `json:"experience"`
	Location        string `json:"location"`
	License         string `json:"license"`
	PhotoURI        string `json:"photo"`
}

// DoctorDirectory is the admin-managed list of doctors.
type DoctorDirectory struct {
	doctors []Doctor
}

// NewDoctorDirectory creates a directory seeded with the given doctors.
func NewDoctorDirectory(seed []Doctor) *DoctorDirectory {
	d := &DoctorDirectory{doctors: make([]Doctor, len(seed))}
	copy(d.doctors, seed)
	return d
}

// List returns a snapshot of the directory.
func (d *DoctorDirectory) List() []Doctor {
	out := make([]Doctor, len(d.doctors))
	copy(out, d.doctors)
	return out
}

// Add appends a doctor. Every field except the id is required; the id is
// assigned here.
func (d *DoctorDirectory) Add(doc Doctor) (Doctor, error) {
	if doc.Name == "" || doc.ExperienceYears <= 0 || doc.Location == "" || doc.License == "" || doc.PhotoURI == "" {
		return Doctor{}, ErrIncompleteDoctor
	}

	doc.ID = ulid.Make().String()
	next := make([]Doctor, len(d.doctors), len(d.doctors)+1)
	copy(next, d.doctors)
	d.doctors = append(next, doc)
	return doc, nil
}

// Remove deletes a doctor by id.
func (d *DoctorDirectory) Remove(id string) error {
	for i, doc := range d.doctors {
		if doc.ID == id {
			next := make([]Doctor, 0, len(d.doctors)-1)
			next = append(next, d.doctors[:i]...)
			next = append(next, d.doctors[i+1:]...)
			d.doctors = next
			return nil
		}
	}
	return fmt.Errorf("remove doctor %q: %w", id, ErrNotFound)
}
