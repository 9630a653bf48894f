package collection

import (
	"errors"
	"strings"
	"testing"

	"github.com/Strob0t/basenames/internal/domain"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Cool Cats", "COOLC"},
		{"ape", "APE"},
		{"  my  nft ", "MYNFT"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Symbol(tt.input); got != tt.want {
			t.Errorf("Symbol(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDemoAddress(t *testing.T) {
	a := DemoAddress("Cool Cats", "0xABCDEF0000000000000000000000000000000001")
	if len(a) != 42 || !strings.HasPrefix(a, "0x") {
		t.Fatalf("unexpected address format %q", a)
	}
	if b := DemoAddress("Cool Cats", "0xabcdef0000000000000000000000000000000001"); a != b {
		t.Errorf("expected creator case to be ignored: %s != %s", a, b)
	}
	if c := DemoAddress("Other", "0xabcdef0000000000000000000000000000000001"); a == c {
		t.Error("expected different names to give different addresses")
	}
}

func TestValidateCreateRequest(t *testing.T) {
	if err := ValidateCreateRequest(CreateRequest{Name: "Cats"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateCreateRequest(CreateRequest{Name: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = ValidateCreateRequest(CreateRequest{Name: strings.Repeat("x", 129)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for long name, got %v", err)
	}
}
