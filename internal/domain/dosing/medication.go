// Package dosing holds the medication-dosing calculators: weight-based
// medication dosage, low-molecular-weight heparin, the clinical unit
// converter and pediatric dosage.
package dosing

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// MedicationDosage computes a weight-based total dose and the volume to
// administer for a given concentration.
type MedicationDosage struct{}

func NewMedicationDosage() *MedicationDosage { return &MedicationDosage{} }

func (MedicationDosage) ID() string { return "medication_dosage" }

type medicationInput struct {
	weight        float64 // kg
	dosePerKg     float64 // mg/kg
	concentration float64 // mg/mL
}

func (MedicationDosage) parse(in engine.FieldValues) (medicationInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := medicationInput{
		weight:        f.Float("weight", "Peso (kg)", 0.5, 250),
		dosePerKg:     f.Float("dose_per_kg", "Dosis por kg (mg/kg)", 0.01, 100),
		concentration: f.Float("concentration", "Concentración (mg/mL)", 0.01, 1000),
	}
	return p, f.Result()
}

func (m MedicationDosage) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := m.parse(in)
	return vr
}

func (m MedicationDosage) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := m.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	totalDose := p.dosePerKg * p.weight
	volume := totalDose / p.concentration

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: volume > 20, Message: "El volumen calculado supera 20 mL: verificar concentración y vía de administración."},
		{When: volume < 0.1, Message: "El volumen calculado es menor a 0.1 mL: riesgo de error de medición; considerar dilución."},
		{When: totalDose > 50*p.weight, Message: "La dosis total excede 50 mg/kg: verificar la prescripción antes de administrar."},
	})

	return &engine.CalculationResult{
		CalculatorID: m.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"total_dose":      engine.FormatFloat(totalDose, 1),
			"volume":          engine.FormatFloat(volume, 2),
			"safety_warnings": warnings,
		},
	}, nil
}

func (m MedicationDosage) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Dosis total: %s mg — Volumen a administrar: %s mL",
		res.Results["total_dose"], res.Results["volume"]))
	n.Section("Fórmula",
		"Dosis total (mg) = dosis por kg × peso",
		"Volumen (mL) = dosis total / concentración")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"Verificar siempre la dosis contra la prescripción médica y la información del fabricante.",
		"El cálculo no considera ajustes por función renal o hepática.")
	return n.String()
}

func (MedicationDosage) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Cálculo de dosis y administración de medicamentos", Source: "Manual de enfermería IMSS", Year: 2019},
		{Title: "Medication Dosage Calculations", Source: "Institute for Safe Medication Practices", URL: "https://www.ismp.org"},
	}
}
