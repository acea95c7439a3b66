package vitals

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// MinuteVentilation computes expired minute volume from respiratory rate and
// tidal volume, with independent alarm thresholds on each of the three values.
type MinuteVentilation struct{}

func NewMinuteVentilation() *MinuteVentilation { return &MinuteVentilation{} }

func (MinuteVentilation) ID() string { return "minute_ventilation" }

type ventilationInput struct {
	rate        float64 // respiraciones por minuto
	tidalVolume float64 // mL
}

func (MinuteVentilation) parse(in engine.FieldValues) (ventilationInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := ventilationInput{
		rate:        f.Float("respiratory_rate", "Frecuencia respiratoria (rpm)", 4, 60),
		tidalVolume: f.Float("tidal_volume", "Volumen corriente (mL)", 50, 2000),
	}
	return p, f.Result()
}

func (m MinuteVentilation) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := m.parse(in)
	return vr
}

func (m MinuteVentilation) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := m.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	ve := p.rate * (p.tidalVolume / 1000)

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: p.rate > 30, Message: "Taquipnea (FR > 30 rpm): valorar causa de aumento del trabajo respiratorio."},
		{When: p.rate < 8, Message: "Bradipnea (FR < 8 rpm): riesgo de hipoventilación; valorar nivel de conciencia y fármacos depresores."},
		{When: p.tidalVolume < 300, Message: "Volumen corriente bajo (< 300 mL): riesgo de ventilación alveolar insuficiente."},
		{When: p.tidalVolume > 800, Message: "Volumen corriente alto (> 800 mL): riesgo de volutrauma en ventilación mecánica."},
		{When: ve < 4, Message: "Volumen minuto bajo (< 4 L/min): riesgo de hipercapnia."},
		{When: ve > 12, Message: "Volumen minuto alto (> 12 L/min): valorar fiebre, acidosis metabólica o dolor."},
	})

	return &engine.CalculationResult{
		CalculatorID: m.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"minute_ventilation": engine.FormatFloat(ve, 2),
			"safety_warnings":    warnings,
		},
	}, nil
}

func (m MinuteVentilation) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Volumen minuto: %s L/min", res.Results["minute_ventilation"]))
	n.Section("Fórmula",
		"Volumen minuto (L/min) = frecuencia respiratoria × volumen corriente (mL) / 1000")
	n.Section("Valores de referencia",
		"Volumen minuto en reposo: 5 – 8 L/min",
		"Frecuencia respiratoria: 12 – 20 rpm",
		"Volumen corriente: 6 – 8 mL/kg de peso predicho")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"No sustituye la gasometría arterial para evaluar la ventilación alveolar efectiva.")
	return n.String()
}

func (MinuteVentilation) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Principios de ventilación mecánica", Source: "West, Fisiología Respiratoria", Year: 2017},
		{Title: "Lung-protective ventilation strategies", Source: "New England Journal of Medicine", Year: 2013},
	}
}
