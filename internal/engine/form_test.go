package engine

import (
	"strings"
	"testing"
)

// ── Required fields ──

func TestForm_CollectsEveryViolation(t *testing.T) {
	f := NewForm(FieldValues{})
	f.Float("weight", "Peso (kg)", 10, 300)
	f.Float("height", "Estatura (cm)", 50, 250)
	vr := f.Result()
	if vr.Valid {
		t.Fatal("expected invalid result")
	}
	if len(vr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(vr.Errors), vr.Errors)
	}
	for _, e := range vr.Errors {
		if !strings.Contains(e, "es obligatorio") {
			t.Errorf("expected required-field message, got %q", e)
		}
	}
}

func TestForm_FloatRange(t *testing.T) {
	f := NewForm(FieldValues{"weight": "500"})
	f.Float("weight", "Peso (kg)", 10, 300)
	vr := f.Result()
	if vr.Valid {
		t.Fatal("expected out-of-range value to be invalid")
	}
	if !strings.Contains(vr.Errors[0], "debe estar entre 10 y 300") {
		t.Errorf("expected range message, got %q", vr.Errors[0])
	}
}

func TestForm_FloatAcceptsCommaDecimal(t *testing.T) {
	f := NewForm(FieldValues{"weight": "70,5"})
	v := f.Float("weight", "Peso (kg)", 10, 300)
	if vr := f.Result(); !vr.Valid {
		t.Fatalf("expected comma decimal to parse, got %v", vr.Errors)
	}
	if v != 70.5 {
		t.Errorf("expected 70.5, got %v", v)
	}
}

func TestForm_FloatRejectsGarbage(t *testing.T) {
	f := NewForm(FieldValues{"weight": "abc"})
	f.Float("weight", "Peso (kg)", 10, 300)
	vr := f.Result()
	if vr.Valid {
		t.Fatal("expected non-numeric value to be invalid")
	}
	if !strings.Contains(vr.Errors[0], "debe ser un número válido") {
		t.Errorf("expected numeric message, got %q", vr.Errors[0])
	}
}

// ── Optional fields ──

func TestForm_FloatOptDefault(t *testing.T) {
	f := NewForm(FieldValues{})
	v := f.FloatOpt("age", "Edad (años)", 18, 120, 0)
	if vr := f.Result(); !vr.Valid {
		t.Fatalf("expected absent optional field to be valid, got %v", vr.Errors)
	}
	if v != 0 {
		t.Errorf("expected default 0, got %v", v)
	}
}

func TestForm_FloatOptStillRangeChecked(t *testing.T) {
	f := NewForm(FieldValues{"age": "150"})
	f.FloatOpt("age", "Edad (años)", 18, 120, 0)
	if vr := f.Result(); vr.Valid {
		t.Error("expected provided out-of-range optional field to be invalid")
	}
}

// ── Integers ──

func TestForm_IntRejectsFraction(t *testing.T) {
	f := NewForm(FieldValues{"eye": "3.5"})
	f.Int("eye", "Respuesta ocular", 1, 4)
	if vr := f.Result(); vr.Valid {
		t.Error("expected fractional value to be invalid for integer field")
	}
}

// ── Booleans ──

func TestForm_BoolLiterals(t *testing.T) {
	f := NewForm(FieldValues{"fever": "true", "intubated": "false"})
	if !f.Bool("fever", "Fiebre") {
		t.Error("expected true literal to parse as true")
	}
	if f.Bool("intubated", "Intubado") {
		t.Error("expected false literal to parse as false")
	}
	if vr := f.Result(); !vr.Valid {
		t.Errorf("unexpected errors: %v", vr.Errors)
	}
}

func TestForm_BoolRejectsOtherLiterals(t *testing.T) {
	f := NewForm(FieldValues{"fever": "sí"})
	f.Bool("fever", "Fiebre")
	vr := f.Result()
	if vr.Valid {
		t.Fatal("expected non-boolean literal to be invalid")
	}
	if !strings.Contains(vr.Errors[0], `debe ser "true" o "false"`) {
		t.Errorf("expected boolean message, got %q", vr.Errors[0])
	}
}

// ── Enums ──

func TestForm_EnumExactMatch(t *testing.T) {
	f := NewForm(FieldValues{"electrolyte": "sodio"})
	f.Enum("electrolyte", "Electrolito", "Sodio", "Potasio")
	vr := f.Result()
	if vr.Valid {
		t.Fatal("expected case-mismatched option to be invalid")
	}
	if !strings.Contains(vr.Errors[0], "Sodio, Potasio") {
		t.Errorf("expected option list in message, got %q", vr.Errors[0])
	}
}

func TestForm_EnumOptDefault(t *testing.T) {
	f := NewForm(FieldValues{})
	v := f.EnumOpt("renal_function", "Función renal", "Normal", "Normal", "Insuficiencia leve")
	if v != "Normal" {
		t.Errorf("expected default Normal, got %q", v)
	}
	if vr := f.Result(); !vr.Valid {
		t.Errorf("unexpected errors: %v", vr.Errors)
	}
}
