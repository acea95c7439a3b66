// Package scores holds the ordinal clinical scoring instruments: Braden
// (pressure-ulcer risk), Glasgow (consciousness) and Apgar (neonatal status).
// Each is a pure sum of item scores followed by a fixed risk banding that
// drives the prevention and monitoring text.
package scores

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// Braden computes the Braden pressure-ulcer risk score: five items scored
// 1–4 plus friction/shear scored 1–3, total range 6–23.
type Braden struct{}

func NewBraden() *Braden { return &Braden{} }

func (Braden) ID() string { return "braden_scale" }

type bradenInput struct {
	sensory, moisture, activity, mobility, nutrition, friction int
}

func (Braden) parse(in engine.FieldValues) (bradenInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := bradenInput{
		sensory:   f.Int("sensory_perception", "Percepción sensorial", 1, 4),
		moisture:  f.Int("moisture", "Exposición a la humedad", 1, 4),
		activity:  f.Int("activity", "Actividad", 1, 4),
		mobility:  f.Int("mobility", "Movilidad", 1, 4),
		nutrition: f.Int("nutrition", "Nutrición", 1, 4),
		friction:  f.Int("friction_shear", "Fricción y cizallamiento", 1, 3),
	}
	return p, f.Result()
}

func (b Braden) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := b.parse(in)
	return vr
}

type bradenBand struct {
	risk       string
	prevention string
	monitoring string
}

func bradenBandFor(total int) bradenBand {
	switch {
	case total <= 9:
		return bradenBand{
			risk:       "Riesgo muy alto",
			prevention: "Superficie de redistribución de presión, cambios posturales cada 2 horas y protección de prominencias óseas.",
			monitoring: "Inspección de la piel en cada turno y revaloración diaria de la escala.",
		}
	case total <= 12:
		return bradenBand{
			risk:       "Riesgo alto",
			prevention: "Cambios posturales cada 2-3 horas, manejo de la humedad y optimización nutricional.",
			monitoring: "Inspección de la piel en cada turno y revaloración diaria de la escala.",
		}
	case total <= 14:
		return bradenBand{
			risk:       "Riesgo moderado",
			prevention: "Cambios posturales programados y vigilancia de zonas de presión.",
			monitoring: "Revaloración de la escala cada 48 horas o ante cambio clínico.",
		}
	case total <= 18:
		return bradenBand{
			risk:       "Riesgo bajo",
			prevention: "Fomentar la movilidad y mantener la piel limpia y seca.",
			monitoring: "Revaloración de la escala cada 72 horas o ante cambio clínico.",
		}
	default:
		return bradenBand{
			risk:       "Sin riesgo",
			prevention: "Medidas generales de cuidado de la piel.",
			monitoring: "Revaloración al ingreso y ante cambio del estado clínico.",
		}
	}
}

func (b Braden) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := b.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	total := p.sensory + p.moisture + p.activity + p.mobility + p.nutrition + p.friction
	band := bradenBandFor(total)

	return &engine.CalculationResult{
		CalculatorID: b.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"total_score": engine.FormatInt(total),
			"risk_level":  band.risk,
			"prevention":  band.prevention,
			"monitoring":  band.monitoring,
		},
	}, nil
}

func (b Braden) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Escala de Braden: %s puntos — %s", res.Results["total_score"], res.Results["risk_level"]))
	n.Section("Valores de referencia",
		"Riesgo muy alto: ≤ 9",
		"Riesgo alto: 10 – 12",
		"Riesgo moderado: 13 – 14",
		"Riesgo bajo: 15 – 18",
		"Sin riesgo: 19 – 23")
	n.Section("Prevención", res.Results["prevention"])
	n.Section("Vigilancia", res.Results["monitoring"])
	n.Section("Limitaciones",
		"La escala complementa, no sustituye, el juicio clínico de enfermería.")
	return n.String()
}

func (Braden) References() []engine.Reference {
	return []engine.Reference{
		{Title: "The Braden Scale for Predicting Pressure Sore Risk", Source: "Nursing Research", Year: 1987},
		{Title: "Prevención y tratamiento de úlceras por presión", Source: "Guía de práctica clínica IMSS", Year: 2015},
	}
}
