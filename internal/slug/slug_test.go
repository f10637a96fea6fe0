package slug

import (
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "acme", "acme"},
		{"spaces and case", "Acme Corp", "acme-corp"},
		{"punctuation runs", "  Hello,   World!! ", "hello-world"},
		{"diacritics", "Café Crème", "cafe-creme"},
		{"digits", "Sprint 42", "sprint-42"},
		{"underscores", "dev_ops__team", "dev-ops-team"},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.in)
			if got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Make(got); again != got {
				t.Errorf("Make(Make(%q)) = %q, want %q", tt.in, again, got)
			}
		})
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID().String()
		if seen[id] {
			t.Fatalf("NewID() generated duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	got, ok := ParseID(id.String())
	if !ok || got != id {
		t.Errorf("ParseID(%q) = %v, %v", id.String(), got, ok)
	}
	if _, ok := ParseID("acme"); ok {
		t.Error("ParseID(\"acme\") should fail")
	}
}
