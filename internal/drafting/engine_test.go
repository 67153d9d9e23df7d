package drafting_test

import (
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/JaimeStill/lexdraft/internal/classify"
	"github.com/JaimeStill/lexdraft/internal/drafting"
	"github.com/JaimeStill/lexdraft/internal/registry"
)

var fixed = time.Date(2024, time.March, 7, 10, 30, 0, 0, time.UTC)

func newEngine(t *testing.T, opts ...drafting.Option) *drafting.Engine {
	t.Helper()
	reg, err := registry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error: %v", err)
	}
	opts = append([]drafting.Option{drafting.WithClock(func() time.Time { return fixed })}, opts...)
	return drafting.New(reg, opts...)
}

func TestDetectType(t *testing.T) {
	e := newEngine(t)

	got := e.DetectType("I was robbed at the market, need to file a police complaint", "")
	if got.DocumentType != "fir" {
		t.Errorf("DocumentType = %q, want fir", got.DocumentType)
	}

	got = e.DetectType("", "")
	if got.DocumentType != "legal_notice" {
		t.Errorf("DocumentType = %q, want legal_notice", got.DocumentType)
	}
}

func TestAssembleCommonFields(t *testing.T) {
	e := newEngine(t, drafting.WithPlace("Mumbai"))

	fields, err := e.Assemble("affidavit", classify.Input{}, nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	if fields["date"] != "07/03/2024" {
		t.Errorf("date = %q, want 07/03/2024", fields["date"])
	}
	if fields["place"] != "Mumbai" {
		t.Errorf("place = %q, want Mumbai", fields["place"])
	}
	if fields["deponent_name"] != "[Deponent Name]" {
		t.Errorf("deponent_name = %q, want placeholder", fields["deponent_name"])
	}
}

func TestAssembleDefaultPlace(t *testing.T) {
	fields, err := newEngine(t).Assemble("fir", classify.Input{}, nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if fields["place"] != drafting.DefaultPlace {
		t.Errorf("place = %q, want %q", fields["place"], drafting.DefaultPlace)
	}
}

func TestAssembleCompleteness(t *testing.T) {
	e := newEngine(t)
	reg := e.Registry()

	in := classify.Input{
		Query:    "My name is Kiran. My landlord at Lajpat Nagar is keeping the deposit, rent 18,000",
		Response: "Consider a legal notice",
	}

	for _, dt := range reg.Types() {
		t.Run(dt.ID, func(t *testing.T) {
			fields, err := e.Assemble(dt.ID, in, nil)
			if err != nil {
				t.Fatalf("Assemble error: %v", err)
			}
			if len(fields) != len(dt.Fields) {
				t.Errorf("len(fields) = %d, want %d", len(fields), len(dt.Fields))
			}
			for _, f := range dt.Fields {
				if _, ok := fields[f.Name]; !ok {
					t.Errorf("missing field %q", f.Name)
				}
			}
		})
	}
}

func TestAssembleOverridePrecedence(t *testing.T) {
	e := newEngine(t)
	in := classify.Input{Query: "my name is ravi, rent is 12000"}

	extracted, err := e.Assemble("rental_agreement", in, nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if extracted["tenant_name"] != "Ravi" || extracted["rent_amount"] != "Rs. 12000" {
		t.Fatalf("extraction precondition failed: %v", extracted)
	}

	overrides := map[string]string{
		"tenant_name": "Anil Mehta",
		"rent_amount": "Rs. 20000",
		"date":        "01/01/2025",
		"witness":     "S. Iyer",
	}

	fields, err := e.Assemble("rental_agreement", in, overrides)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	for k, v := range overrides {
		if fields[k] != v {
			t.Errorf("%s = %q, want override %q", k, fields[k], v)
		}
	}
}

func TestAssembleUnknownType(t *testing.T) {
	_, err := newEngine(t).Assemble("will", classify.Input{}, nil)
	if !errors.Is(err, registry.ErrUnknownDocumentType) {
		t.Errorf("error = %v, want ErrUnknownDocumentType", err)
	}
}

func TestGenerateFields(t *testing.T) {
	e := newEngine(t)

	t.Run("detects type", func(t *testing.T) {
		gen, err := e.GenerateFields(drafting.Request{
			Query:  "I was robbed at the market, need to file a police complaint",
			DryRun: true,
		})
		if err != nil {
			t.Fatalf("GenerateFields error: %v", err)
		}
		if gen.DocumentType != "fir" {
			t.Errorf("DocumentType = %q, want fir", gen.DocumentType)
		}
		if gen.Fields["incident_type"] != "Robbery" {
			t.Errorf("incident_type = %q, want Robbery", gen.Fields["incident_type"])
		}
		if !gen.DryRun {
			t.Error("DryRun not carried through")
		}
	})

	t.Run("explicit type with override", func(t *testing.T) {
		gen, err := e.GenerateFields(drafting.Request{
			DocumentType: "affidavit",
			Overrides:    map[string]string{"deponent_name": "Asha Rao"},
		})
		if err != nil {
			t.Fatalf("GenerateFields error: %v", err)
		}
		if gen.DocumentType != "affidavit" {
			t.Errorf("DocumentType = %q", gen.DocumentType)
		}
		if gen.Fields["deponent_name"] != "Asha Rao" {
			t.Errorf("deponent_name = %q, want Asha Rao", gen.Fields["deponent_name"])
		}

		dt, _ := e.Registry().Get("affidavit")
		for _, f := range dt.Fields {
			v, ok := gen.Fields[f.Name]
			if !ok {
				t.Errorf("missing field %q", f.Name)
				continue
			}
			if f.Name == "deponent_name" || f.Name == "date" || f.Name == "place" {
				continue
			}
			if v != f.Default {
				t.Errorf("%s = %q, want placeholder %q", f.Name, v, f.Default)
			}
		}
	})

	t.Run("unknown explicit type", func(t *testing.T) {
		_, err := e.GenerateFields(drafting.Request{DocumentType: "will"})
		if !errors.Is(err, registry.ErrUnknownDocumentType) {
			t.Errorf("error = %v, want ErrUnknownDocumentType", err)
		}
	})
}

func TestGenerateFieldsDryRunIdempotent(t *testing.T) {
	e := newEngine(t)
	req := drafting.Request{
		Query:    "I am Neha Gupta. Need RTI details from the municipal office about road repairs",
		Response: "File an RTI application with the PIO",
		DryRun:   true,
	}

	first, err := e.GenerateFields(req)
	if err != nil {
		t.Fatalf("GenerateFields error: %v", err)
	}
	second, err := e.GenerateFields(req)
	if err != nil {
		t.Fatalf("GenerateFields error: %v", err)
	}

	if first.DocumentType != second.DocumentType {
		t.Errorf("DocumentType %q then %q", first.DocumentType, second.DocumentType)
	}
	if !maps.Equal(first.Fields, second.Fields) {
		t.Errorf("fields differ:\n%v\n%v", first.Fields, second.Fields)
	}
}
