package otputil

import "testing"

func TestGenerateLengthAndCharset(t *testing.T) {
	for _, digits := range []int{4, 6, 10} {
		code, err := Generate(digits)
		if err != nil {
			t.Fatalf("generate %d: %v", digits, err)
		}
		if len(code) != digits {
			t.Fatalf("expected %d digits, got %q", digits, code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("non-digit %q in code %q", ch, code)
			}
		}
	}
}

func TestGenerateRejectsBadLength(t *testing.T) {
	for _, digits := range []int{0, 3, 11, -1} {
		if _, err := Generate(digits); err == nil {
			t.Fatalf("expected error for %d digits", digits)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		code, err := Generate(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[code] = true
	}
	// 32 draws from a million-code space colliding down to one value would
	// mean a broken source.
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %v", seen)
	}
}
