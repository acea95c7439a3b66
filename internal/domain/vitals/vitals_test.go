package vitals

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// ── BMI ──

func TestBMI_NormalWeight(t *testing.T) {
	res, err := NewBMI().Calculate(engine.FieldValues{"weight": "70", "height": "170"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Results["bmi"] != "24.2" {
		t.Errorf("expected bmi 24.2, got %q", res.Results["bmi"])
	}
	if res.Results["category"] != "Peso normal" {
		t.Errorf("expected Peso normal, got %q", res.Results["category"])
	}
}

func TestBMI_CategoryBoundaries(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{18.4, "Bajo peso"},
		{18.5, "Peso normal"},
		{24.9, "Peso normal"},
		{25.0, "Sobrepeso"},
		{29.9, "Sobrepeso"},
		{30.0, "Obesidad grado I"},
		{35.0, "Obesidad grado II"},
		{40.0, "Obesidad grado III"},
	}
	for _, tc := range cases {
		if got := BMICategory(tc.bmi); got != tc.want {
			t.Errorf("BMICategory(%v) = %q, want %q", tc.bmi, got, tc.want)
		}
	}
}

func TestBMI_MonotonicInWeight(t *testing.T) {
	calc := NewBMI()
	var prev float64
	for i, w := range []string{"50", "60", "70", "80", "90"} {
		res, err := calc.Calculate(engine.FieldValues{"weight": w, "height": "170"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		bmi, err := strconv.ParseFloat(res.Results["bmi"], 64)
		if err != nil {
			t.Fatalf("unparseable bmi %q: %v", res.Results["bmi"], err)
		}
		if i > 0 && bmi <= prev {
			t.Errorf("expected bmi strictly increasing with weight, got %v after %v", bmi, prev)
		}
		prev = bmi
	}
}

func TestBMI_ValidationCollectsAllErrors(t *testing.T) {
	vr := NewBMI().Validate(engine.FieldValues{})
	if vr.Valid {
		t.Fatal("expected invalid")
	}
	if len(vr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", vr.Errors)
	}
}

func TestBMI_CalculateRejectsInvalid(t *testing.T) {
	if _, err := NewBMI().Calculate(engine.FieldValues{"weight": "70"}); err == nil {
		t.Error("expected aggregated error for missing height")
	}
}

func TestBMI_Idempotent(t *testing.T) {
	calc := NewBMI()
	in := engine.FieldValues{"weight": "81.3", "height": "176"}
	a, err := calc.Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := calc.Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.Results, b.Results) {
		t.Errorf("expected identical results, got %v vs %v", a.Results, b.Results)
	}
}

// ── Mean arterial pressure ──

func TestMAP_Reference(t *testing.T) {
	res, err := NewMeanArterialPressure().Calculate(engine.FieldValues{"systolic": "120", "diastolic": "80"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Results["map"] != "93.3" {
		t.Errorf("expected map 93.3, got %q", res.Results["map"])
	}
	if res.Results["category"] != "Presión arterial media adecuada" {
		t.Errorf("unexpected category %q", res.Results["category"])
	}
}

func TestMAP_DiastolicMustBeLower(t *testing.T) {
	vr := NewMeanArterialPressure().Validate(engine.FieldValues{"systolic": "90", "diastolic": "100"})
	if vr.Valid {
		t.Fatal("expected cross-field check to fail")
	}
	found := false
	for _, e := range vr.Errors {
		if strings.Contains(e, "debe ser menor que la sistólica") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cross-field message, got %v", vr.Errors)
	}
}

func TestMAP_HypoperfusionWarning(t *testing.T) {
	res, err := NewMeanArterialPressure().Calculate(engine.FieldValues{
		"systolic": "80", "diastolic": "40", "clinical_context": ContextSepsis,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Results["category"] != "Riesgo de hipoperfusión" {
		t.Errorf("unexpected category %q", res.Results["category"])
	}
	if !strings.Contains(res.Results["safety_warnings"], "vasopresores") {
		t.Errorf("expected sepsis warning, got %q", res.Results["safety_warnings"])
	}
}

func TestMAP_ContextDoesNotChangeValue(t *testing.T) {
	calc := NewMeanArterialPressure()
	base, err := calc.Calculate(engine.FieldValues{"systolic": "120", "diastolic": "80"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbi, err := calc.Calculate(engine.FieldValues{"systolic": "120", "diastolic": "80", "clinical_context": ContextTBI})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.Results["map"] != tbi.Results["map"] {
		t.Errorf("clinical context must not change the number: %q vs %q", base.Results["map"], tbi.Results["map"])
	}
}

// ── Minute ventilation ──

func TestMinuteVentilation_Normal(t *testing.T) {
	res, err := NewMinuteVentilation().Calculate(engine.FieldValues{"respiratory_rate": "12", "tidal_volume": "500"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Results["minute_ventilation"] != "6.00" {
		t.Errorf("expected 6.00, got %q", res.Results["minute_ventilation"])
	}
	if res.Results["safety_warnings"] != "" {
		t.Errorf("expected no warnings, got %q", res.Results["safety_warnings"])
	}
}

func TestMinuteVentilation_IndependentAlarms(t *testing.T) {
	res, err := NewMinuteVentilation().Calculate(engine.FieldValues{"respiratory_rate": "35", "tidal_volume": "900"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := res.Results["safety_warnings"]
	if !strings.Contains(w, "Taquipnea") {
		t.Errorf("expected tachypnea warning, got %q", w)
	}
	if !strings.Contains(w, "volutrauma") {
		t.Errorf("expected high tidal volume warning, got %q", w)
	}
	if !strings.Contains(w, "Volumen minuto alto") {
		t.Errorf("expected high minute volume warning, got %q", w)
	}
}

func TestMinuteVentilation_RangeRejection(t *testing.T) {
	vr := NewMinuteVentilation().Validate(engine.FieldValues{"respiratory_rate": "70", "tidal_volume": "20"})
	if vr.Valid {
		t.Fatal("expected invalid")
	}
	if len(vr.Errors) != 2 {
		t.Errorf("expected 2 range errors, got %v", vr.Errors)
	}
}
