package domain_test

import (
	"errors"
	"net/url"
	"testing"

	"inventory/internal/domain"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name      string
		kind      domain.Kind
		form      url.Values
		wantField string
	}{
		{"empty name", domain.Items, url.Values{"name": {""}, "quantity": {"1"}}, "name"},
		{"blank name", domain.Items, url.Values{"name": {"   "}, "quantity": {"1"}}, "name"},
		{"missing quantity", domain.Items, url.Values{"name": {"bolt"}}, "quantity"},
		{"fractional quantity", domain.Items, url.Values{"name": {"bolt"}, "quantity": {"1.5"}}, "quantity"},
		{"negative quantity", domain.Items, url.Values{"name": {"bolt"}, "quantity": {"-1"}}, "quantity"},
		{"bad voltage", domain.ElectricalParts, url.Values{"name": {"R1"}, "quantity": {"5"}, "voltage": {"five"}}, "voltage"},
		{"valid", domain.ElectricalParts, url.Values{"name": {"R1"}, "quantity": {"5"}, "voltage": {"5"}}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ParseFields(tc.kind, tc.form)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, ve.Field)
			}
		})
	}
}

func TestParseFields_Attributes(t *testing.T) {
	f, err := domain.ParseFields(domain.RawMaterials, url.Values{
		"name":     {" copper wire "},
		"quantity": {"12"},
		"type":     {"copper"},
		"purity":   {""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "copper wire" {
		t.Errorf("expected trimmed name, got %q", f.Name)
	}
	if f.Quantity != 12 {
		t.Errorf("expected quantity 12, got %d", f.Quantity)
	}
	if f.Attrs["type"] != "copper" {
		t.Errorf("expected type copper, got %v", f.Attrs["type"])
	}
	if v, ok := f.Attrs["purity"]; !ok || v != nil {
		t.Errorf("expected purity to be present and nil, got %v (present=%v)", v, ok)
	}
}

func TestParseFields_RejectsNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			_, err := domain.ParseFields(domain.RawMaterials, url.Values{
				"name":     {"copper wire"},
				"quantity": {"12"},
				"purity":   {raw},
			})
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != "purity" {
				t.Fatalf("expected purity validation error, got %v", err)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	if got := domain.FormatValue(nil); got != "" {
		t.Errorf("nil: got %q", got)
	}
	if got := domain.FormatValue(2.5); got != "2.5" {
		t.Errorf("float: got %q", got)
	}
	if got := domain.FormatValue(5.0); got != "5" {
		t.Errorf("whole float: got %q", got)
	}
	if got := domain.FormatValue("steel"); got != "steel" {
		t.Errorf("string: got %q", got)
	}
}

func TestKindBySlug(t *testing.T) {
	for _, k := range domain.Kinds() {
		got, ok := domain.KindBySlug(k.Slug)
		if !ok || got.Table != k.Table {
			t.Errorf("KindBySlug(%q) = %v, %v", k.Slug, got, ok)
		}
	}
	if _, ok := domain.KindBySlug("users"); ok {
		t.Error("users must not resolve to a resource kind")
	}
}
