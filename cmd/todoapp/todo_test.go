package main

import (
	"testing"
	"time"
)

func TestParseDue(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	today := time.Now().Format(dateLayout)

	tests := []struct {
		name    string
		in      string
		wantNil bool
		wantErr bool
	}{
		{name: "empty means no due date", in: "", wantNil: true},
		{name: "today", in: today},
		{name: "tomorrow", in: tomorrow},
		{name: "past", in: "2001-02-03", wantErr: true},
		{name: "garbage", in: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDue(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDue(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDue(%q): %v", tt.in, err)
			}
			if (got == nil) != tt.wantNil {
				t.Fatalf("parseDue(%q) = %v, wantNil %v", tt.in, got, tt.wantNil)
			}
			if got != nil && got.Local().Format(dateLayout) != tt.in {
				t.Errorf("parseDue(%q) round trip = %s", tt.in, got.Local().Format(dateLayout))
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, in := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID(in); err == nil {
			t.Errorf("parseID(%q) succeeded, want error", in)
		}
	}
}
