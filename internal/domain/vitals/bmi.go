// Package vitals holds the bedside vital-sign calculators: body mass index,
// mean arterial pressure and minute ventilation.
package vitals

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// BMI computes body mass index from weight and height with the six-tier
// IMSS categorization.
type BMI struct{}

func NewBMI() *BMI { return &BMI{} }

func (BMI) ID() string { return "bmi" }

type bmiInput struct {
	weight float64 // kg
	height float64 // cm
}

func (BMI) parse(in engine.FieldValues) (bmiInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := bmiInput{
		weight: f.Float("weight", "Peso (kg)", 10, 300),
		height: f.Float("height", "Estatura (cm)", 50, 250),
	}
	return p, f.Result()
}

func (b BMI) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := b.parse(in)
	return vr
}

// BMICategory returns the IMSS band for a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Bajo peso"
	case bmi < 25:
		return "Peso normal"
	case bmi < 30:
		return "Sobrepeso"
	case bmi < 35:
		return "Obesidad grado I"
	case bmi < 40:
		return "Obesidad grado II"
	default:
		return "Obesidad grado III"
	}
}

func (b BMI) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := b.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	heightM := p.height / 100
	bmi := p.weight / (heightM * heightM)
	category := BMICategory(bmi)

	recommendations := engine.JoinAdvisories([]engine.Advisory{
		{When: bmi < 18.5, Message: "Se sugiere valoración nutricional para descartar desnutrición."},
		{When: bmi >= 25 && bmi < 30, Message: "Se sugiere plan de alimentación y actividad física regular."},
		{When: bmi >= 30, Message: "Se sugiere valoración médica integral por obesidad y tamizaje metabólico."},
		{When: bmi >= 40, Message: "Considerar referencia a clínica de obesidad."},
	})

	return &engine.CalculationResult{
		CalculatorID: b.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"bmi":             engine.FormatFloat(bmi, 1),
			"category":        category,
			"recommendations": recommendations,
		},
	}, nil
}

func (b BMI) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("IMC: %s kg/m² — %s", res.Results["bmi"], res.Results["category"]))
	n.Section("Fórmula",
		"IMC = peso (kg) / estatura² (m²)")
	n.Section("Valores de referencia (IMSS)",
		"Bajo peso: < 18.5",
		"Peso normal: 18.5 – 24.9",
		"Sobrepeso: 25.0 – 29.9",
		"Obesidad grado I: 30.0 – 34.9",
		"Obesidad grado II: 35.0 – 39.9",
		"Obesidad grado III: ≥ 40.0")
	n.Section("Recomendaciones", res.Results["recommendations"])
	n.Section("Limitaciones",
		"El IMC no distingue masa muscular de masa grasa.",
		"No aplica a menores de 18 años ni a mujeres embarazadas.")
	return n.String()
}

func (BMI) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Obesidad y sobrepeso", Source: "Organización Mundial de la Salud", Year: 2021, URL: "https://www.who.int/es/news-room/fact-sheets/detail/obesity-and-overweight"},
		{Title: "Guía de práctica clínica: Diagnóstico y tratamiento del sobrepeso y obesidad", Source: "IMSS", Year: 2018},
	}
}
