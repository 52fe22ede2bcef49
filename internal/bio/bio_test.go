package bio

import (
	"reflect"
	"testing"

	"github.com/hyperjump/termscan/internal/models"
)

func TestFootnote(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"* Professor of Law, Yale Law School.", "Professor of Law, Yale Law School.", true},
		{"†Lecturer, University of Chicago", "Lecturer, University of Chicago", true},
		{"1 J.D. Candidate, Harvard Law School", "J.D. Candidate, Harvard Law School", true},
		{"2Associate Professor, Stanford", "Associate Professor, Stanford", true},
		{"* See generally the cited work.", "", false},
		{"Professor Smith wrote", "", false},
		{"1960 University press", "", false},
	}
	for _, tt := range tests {
		got, ok := footnote(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("footnote(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractor_Extract(t *testing.T) {
	d := &models.Document{Pages: []models.Page{
		{Number: 1, Text: "The Firm and the Market\nJane Roe*\n" +
			"Jane Roe is an Associate Professor of Law at the University of Somewhere. She writes.\n" +
			"* Professor of Law, Somewhere University. Contact: JRoe@Law.Example.edu.\n"},
		{Number: 2, Text: "† Visiting Fellow, Some Institute\nbody text"},
		{Number: 3, Text: "‡ Professor elsewhere, way past the first pages"},
	}}
	info := NewExtractor(2).Extract(d)
	wantLines := []string{
		"Professor of Law, Somewhere University. Contact: JRoe@Law.Example.edu.",
		"Jane Roe is an Associate Professor of Law at the University of Somewhere.",
		"Visiting Fellow, Some Institute",
	}
	if !reflect.DeepEqual(info.Lines, wantLines) {
		t.Errorf("Lines = %q, want %q", info.Lines, wantLines)
	}
	if !reflect.DeepEqual(info.Emails, []string{"jroe@law.example.edu"}) {
		t.Errorf("Emails = %q", info.Emails)
	}
}

func TestExtractor_nothingFound(t *testing.T) {
	info := NewExtractor(2).Extract(&models.Document{Pages: []models.Page{{Number: 1, Text: "no bio here"}}})
	if info == nil || !info.Empty() {
		t.Errorf("expected empty, non-nil info, got %+v", info)
	}
	if info := NewExtractor(0).Extract(&models.Document{}); !info.Empty() {
		t.Errorf("expected empty info for empty document, got %+v", info)
	}
}
