package handler

import (
	"errors"
	"testing"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

func TestStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"Secreto123":   true,
		"Contraseña9":  true,
		"short1A":      false,
		"alllower123":  false,
		"ALLUPPER123":  false,
		"NoDigitsHere": false,
	}
	for in, want := range tests {
		if got := StrongPassword(in); got != want {
			t.Errorf("StrongPassword(%q) = %v, want %v", in, got, want)
		}
	}
}

type nestedItem struct {
	Name string `json:"name" validate:"required"`
}

type sampleRequest struct {
	Slug  string       `json:"slug"  validate:"omitempty,slug"`
	Color string       `json:"color" validate:"omitempty,hexcolor"`
	Role  string       `json:"role"  validate:"omitempty,oneof=ADMIN EDITOR"`
	Items []nestedItem `json:"items" validate:"dive"`
}

func TestValidator_FieldErrors(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&sampleRequest{Slug: "sesion-2025", Color: "#e03735", Role: "ADMIN"}); err != nil {
		t.Fatalf("expected a valid request, got %v", err)
	}

	err := v.Validate(&sampleRequest{
		Slug:  "Con Espacios",
		Color: "rojo",
		Role:  "ROOT",
		Items: []nestedItem{{Name: "ok"}, {}},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"slug":          "slug must contain only lowercase letters, numbers and dashes",
		"color":         "color must be a hex color like #e03735",
		"role":          "role must be one of: ADMIN EDITOR",
		"items[1].name": "items[1].name is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}
