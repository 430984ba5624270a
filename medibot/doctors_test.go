package medibot

import (
	"errors"
	"testing"
)

func completeDoctor() Doctor {
	return Doctor{
		Name:            "Dr. Basile Njei",
		ExperienceYears: 5,
		Location:        "Douala, Cameroon",
		License:         "CM-DLA-00123",
		PhotoURI:        "https://example.com/basile.jpg",
	}
}

func TestDirectoryAdd(t *testing.T) {
	dir := NewDoctorDirectory(nil)

	doc, err := dir.Add(completeDoctor())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if got := len(dir.List()); got != 1 {
		t.Fatalf("expected 1 doctor, got %d", got)
	}
}

func TestDirectoryAddRequiresAllFields(t *testing.T) {
	dir := NewDoctorDirectory(nil)

	for _, mutate := range []func(*Doctor){
		func(d *Doctor) { d.Name = "" },
		func(d *Doctor) { d.ExperienceYears = 0 },
		func(d *Doctor) { d.Location = "" },
		func(d *Doctor) { d.License = "" },
		func(d *Doctor) { d.PhotoURI = "" },
	} {
		doc := completeDoctor()
		mutate(&doc)
		if _, err := dir.Add(doc); !errors.Is(err, ErrIncompleteDoctor) {
			t.Fatalf("expected ErrIncompleteDoctor for %+v, got %v", doc, err)
		}
	}
	if got := len(dir.List()); got != 0 {
		t.Fatalf("expected no doctors added, got %d", got)
	}
}

func TestDirectoryRemove(t *testing.T) {
	dir := NewDoctorDirectory(nil)
	doc, err := dir.Add(completeDoctor())
	if err != nil {
		t.Fatal(err)
	}

	snapshot := dir.List()

	if err := dir.Remove(doc.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := len(dir.List()); got != 0 {
		t.Fatalf("expected empty directory, got %d", got)
	}
	if len(snapshot) != 1 {
		t.Fatal("earlier snapshot mutated by Remove")
	}

	if err := dir.Remove(doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
