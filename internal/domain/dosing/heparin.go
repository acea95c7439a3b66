package dosing

import (
	"fmt"
	"math"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// HeparinDosage computes enoxaparin (HBPM) dosing. Prophylactic treatment
// uses a fixed tier selected by the risk flags; therapeutic treatment is
// weight-based with the dose per kg taken from the chosen schedule, adjusted
// for renal insufficiency and rounded to the nearest 2.5 mg (the smallest
// practical syringe graduation).
type HeparinDosage struct{}

func NewHeparinDosage() *HeparinDosage { return &HeparinDosage{} }

func (HeparinDosage) ID() string { return "heparin_dosage" }

const (
	TreatmentProphylactic = "Profiláctico"
	TreatmentTherapeutic  = "Terapéutico"

	ScheduleEvery12h = "1 mg/kg cada 12h"
	ScheduleEvery24h = "1.5 mg/kg cada 24h"
)

// dose per kg for each therapeutic schedule
var therapeuticSchedules = map[string]float64{
	ScheduleEvery12h: 1.0,
	ScheduleEvery24h: 1.5,
}

type heparinInput struct {
	treatmentType      string
	weight             float64 // kg
	schedule           string
	renalInsufficiency bool
	highBleedingRisk   bool
	age                float64 // years, 0 when not provided
}

func (HeparinDosage) parse(in engine.FieldValues) (heparinInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := heparinInput{
		treatmentType:      f.Enum("treatment_type", "Tipo de tratamiento", TreatmentProphylactic, TreatmentTherapeutic),
		weight:             f.Float("weight", "Peso (kg)", 30, 250),
		renalInsufficiency: f.Bool("renal_insufficiency", "Insuficiencia renal (ClCr < 30 mL/min)"),
		highBleedingRisk:   f.Bool("high_bleeding_risk", "Alto riesgo de sangrado"),
		age:                f.FloatOpt("age", "Edad (años)", 18, 120, 0),
	}
	// The dosing schedule is required only for therapeutic treatment.
	if p.treatmentType == TreatmentTherapeutic {
		p.schedule = f.Enum("dosing_schedule", "Esquema de dosificación", ScheduleEvery12h, ScheduleEvery24h)
	}
	return p, f.Result()
}

func (h HeparinDosage) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := h.parse(in)
	return vr
}

// roundToStep rounds v to the nearest multiple of step.
func roundToStep(v, step float64) float64 {
	return math.Round(v/step) * step
}

func (h HeparinDosage) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := h.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	var dose float64
	var frequency string

	switch p.treatmentType {
	case TreatmentProphylactic:
		// Fixed tiers: 40 mg standard, 30 mg renal, 20 mg high bleeding risk.
		dose = 40
		if p.renalInsufficiency {
			dose = 30
		}
		if p.highBleedingRisk {
			dose = 20
		}
		frequency = "cada 24 horas"
	case TreatmentTherapeutic:
		perKg, ok := therapeuticSchedules[p.schedule]
		if !ok {
			return nil, fmt.Errorf("esquema de dosificación no soportado: %q", p.schedule)
		}
		dose = perKg * p.weight
		if p.renalInsufficiency {
			dose *= 0.75
		}
		dose = roundToStep(dose, 2.5)
		if p.schedule == ScheduleEvery12h {
			frequency = "cada 12 horas"
		} else {
			frequency = "cada 24 horas"
		}
	default:
		return nil, fmt.Errorf("tipo de tratamiento no soportado: %q", p.treatmentType)
	}

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: p.highBleedingRisk, Message: "Alto riesgo de sangrado: valorar riesgo-beneficio y vigilancia estrecha de datos de hemorragia."},
		{When: p.renalInsufficiency, Message: "Insuficiencia renal (ClCr < 30 mL/min): dosis reducida; la acumulación del fármaco aumenta el riesgo de sangrado."},
		{When: p.age >= 75, Message: "Paciente ≥ 75 años: preferir el esquema de 1 mg/kg cada 12h en tratamiento terapéutico y vigilar función renal."},
		{When: p.treatmentType == TreatmentTherapeutic && p.weight > 150, Message: "Peso > 150 kg: la dosificación por peso está poco estudiada; considerar monitoreo de anti-Xa."},
	})

	monitoring := engine.JoinAdvisories([]engine.Advisory{
		{When: true, Message: "Biometría hemática con plaquetas basal y entre el día 5 y 10 (vigilancia de trombocitopenia inducida por heparina)."},
		{When: p.renalInsufficiency || p.weight > 150 || p.weight < 45, Message: "Niveles de anti-Xa a las 4 horas de la tercera o cuarta dosis."},
		{When: p.treatmentType == TreatmentTherapeutic, Message: "Vigilar datos clínicos de sangrado en cada turno."},
	})

	return &engine.CalculationResult{
		CalculatorID: h.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"dose":            engine.FormatFloat(dose, 1),
			"frequency":       frequency,
			"safety_warnings": warnings,
			"monitoring":      monitoring,
		},
	}, nil
}

func (h HeparinDosage) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Enoxaparina: %s mg por vía subcutánea %s",
		res.Results["dose"], res.Results["frequency"]))
	n.Section("Esquemas",
		"Profiláctico: 40 mg/24h (30 mg con insuficiencia renal, 20 mg con alto riesgo de sangrado)",
		"Terapéutico: 1 mg/kg cada 12h o 1.5 mg/kg cada 24h, redondeado a múltiplos de 2.5 mg",
		"Ajuste renal terapéutico: reducción del 25% con ClCr < 30 mL/min")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Vigilancia", res.Results["monitoring"])
	n.Section("Limitaciones",
		"No aplica a heparina no fraccionada ni a otros anticoagulantes.",
		"En embarazo y peso extremo la dosificación requiere valoración por especialista.")
	return n.String()
}

func (HeparinDosage) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Enoxaparin dosing and monitoring", Source: "CHEST Antithrombotic Therapy Guidelines", Year: 2021},
		{Title: "Guía de práctica clínica: Prevención y tratamiento de la enfermedad tromboembólica venosa", Source: "IMSS", Year: 2017},
	}
}
