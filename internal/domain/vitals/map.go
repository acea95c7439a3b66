package vitals

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// MeanArterialPressure computes MAP from systolic and diastolic pressure.
// The clinical context field only changes the narrative, never the number.
type MeanArterialPressure struct{}

func NewMeanArterialPressure() *MeanArterialPressure { return &MeanArterialPressure{} }

func (MeanArterialPressure) ID() string { return "mean_arterial_pressure" }

const (
	ContextAmbulatory = "Paciente ambulatorio"
	ContextCritical   = "Paciente crítico"
	ContextSepsis     = "Sepsis"
	ContextTBI        = "Trauma craneoencefálico"
)

type mapInput struct {
	systolic  float64
	diastolic float64
	context   string
}

func (MeanArterialPressure) parse(in engine.FieldValues) (mapInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := mapInput{
		systolic:  f.Float("systolic", "Presión sistólica (mmHg)", 60, 250),
		diastolic: f.Float("diastolic", "Presión diastólica (mmHg)", 30, 150),
		context:   f.EnumOpt("clinical_context", "Contexto clínico", ContextAmbulatory, ContextAmbulatory, ContextCritical, ContextSepsis, ContextTBI),
	}
	if p.systolic > 0 && p.diastolic > 0 && p.diastolic >= p.systolic {
		return p, engine.NewValidationResult(append(f.Errors(),
			"La presión diastólica debe ser menor que la sistólica"))
	}
	return p, f.Result()
}

func (m MeanArterialPressure) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := m.parse(in)
	return vr
}

func mapCategory(v float64) string {
	switch {
	case v < 65:
		return "Riesgo de hipoperfusión"
	case v <= 110:
		return "Presión arterial media adecuada"
	default:
		return "Presión arterial media elevada"
	}
}

func (m MeanArterialPressure) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := m.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	mapValue := (p.systolic + 2*p.diastolic) / 3

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: mapValue < 65, Message: "PAM menor a 65 mmHg: riesgo de hipoperfusión de órganos vitales."},
		{When: mapValue < 65 && p.context == ContextSepsis, Message: "En sepsis la meta de PAM es ≥ 65 mmHg; valorar vasopresores según protocolo."},
		{When: mapValue < 80 && p.context == ContextTBI, Message: "En trauma craneoencefálico se sugiere PAM ≥ 80 mmHg para sostener la presión de perfusión cerebral."},
		{When: mapValue > 110, Message: "PAM elevada: valorar crisis hipertensiva según contexto clínico."},
	})

	return &engine.CalculationResult{
		CalculatorID: m.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"map":              engine.FormatFloat(mapValue, 1),
			"category":         mapCategory(mapValue),
			"clinical_context": p.context,
			"safety_warnings":  warnings,
		},
	}, nil
}

func (m MeanArterialPressure) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("PAM: %s mmHg — %s", res.Results["map"], res.Results["category"]))
	n.Section("Fórmula",
		"PAM = (presión sistólica + 2 × presión diastólica) / 3")
	n.Section("Valores de referencia",
		"Hipoperfusión: < 65 mmHg",
		"Adecuada: 65 – 110 mmHg",
		"Elevada: > 110 mmHg")
	n.Section("Contexto clínico", res.Results["clinical_context"])
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"La PAM calculada asume forma de onda arterial normal; en arritmias o choque la medición invasiva es más confiable.")
	return n.String()
}

func (MeanArterialPressure) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Surviving Sepsis Campaign: International Guidelines", Source: "Critical Care Medicine", Year: 2021},
		{Title: "Mean arterial pressure: therapeutic target in critical care", Source: "UpToDate", Year: 2023},
	}
}
