package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	original := &Cursor{Date: "2024-03-04"}

	encoded := original.Encode()
	if encoded == "" {
		t.Fatal("Encode() returned empty string")
	}

	decoded, err := DecodeCursor(encoded)
	if err != nil {
		t.Fatalf("DecodeCursor() error = %v", err)
	}
	if decoded.Date != original.Date {
		t.Errorf("decoded date = %q, want %q", decoded.Date, original.Date)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	cursor, err := DecodeCursor("")
	if err != nil {
		t.Errorf("DecodeCursor(\"\") error = %v", err)
	}
	if cursor != nil {
		t.Errorf("DecodeCursor(\"\") = %v, want nil", cursor)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	if _, err := DecodeCursor("!!not-base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := DecodeCursor("bm90LWpzb24"); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}

	for _, tt := range tests {
		if got := NormalizeLimit(tt.in); got != tt.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
