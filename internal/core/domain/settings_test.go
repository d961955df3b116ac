package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBranding_Merge(t *testing.T) {
	merged := DefaultBranding().Merge(Branding{LogoURL: "/logo.png", FontFamily: "Inter"})

	want := Branding{
		LogoURL:        "/logo.png",
		PrimaryColor:   "#FF5733",
		SecondaryColor: "#00AACC",
		FontFamily:     "Inter",
	}
	if merged != want {
		t.Fatalf("Merge() = %+v, want %+v", merged, want)
	}
}

func TestProduct_Validate(t *testing.T) {
	ok := &Product{Name: "Mug", Price: decimal.NewFromFloat(0.01), Stock: 0}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	for _, p := range []*Product{
		{Price: decimal.NewFromInt(1)},
		{Name: "Mug", Price: decimal.Zero},
		{Name: "Mug", Price: decimal.NewFromInt(1), Stock: -1},
	} {
		if err := p.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", p, err)
		}
	}
}
