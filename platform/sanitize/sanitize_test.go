package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Coffee Haven", "Coffee Haven"},
		{"  <b>Book</b> Nook ", "Book Nook"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Order", "alert(1)Order"},
		{"Fish &amp; Chips", "Fish & Chips"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
