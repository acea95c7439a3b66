package scores

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// Apgar computes the Apgar newborn score: five items scored 0–2 at a chosen
// evaluation time. The banding depends on both the total and the time point.
type Apgar struct{}

func NewApgar() *Apgar { return &Apgar{} }

func (Apgar) ID() string { return "apgar_score" }

const (
	ApgarMinute1  = "1 minuto"
	ApgarMinute5  = "5 minutos"
	ApgarMinute10 = "10 minutos"
)

type apgarInput struct {
	heartRate, respiration, tone, reflexes, color int
	evaluationTime                                string
}

func (Apgar) parse(in engine.FieldValues) (apgarInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := apgarInput{
		heartRate:      f.Int("heart_rate", "Frecuencia cardiaca", 0, 2),
		respiration:    f.Int("respiratory_effort", "Esfuerzo respiratorio", 0, 2),
		tone:           f.Int("muscle_tone", "Tono muscular", 0, 2),
		reflexes:       f.Int("reflex_irritability", "Irritabilidad refleja", 0, 2),
		color:          f.Int("skin_color", "Coloración de la piel", 0, 2),
		evaluationTime: f.Enum("evaluation_time", "Momento de evaluación", ApgarMinute1, ApgarMinute5, ApgarMinute10),
	}
	return p, f.Result()
}

func (a Apgar) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := a.parse(in)
	return vr
}

func apgarCategory(total int) string {
	switch {
	case total >= 7:
		return "Condición normal"
	case total >= 4:
		return "Depresión moderada"
	default:
		return "Depresión severa"
	}
}

func (a Apgar) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := a.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	total := p.heartRate + p.respiration + p.tone + p.reflexes + p.color

	recommendations := engine.JoinAdvisories([]engine.Advisory{
		{When: total >= 7 && p.evaluationTime == ApgarMinute1, Message: "Puntaje normal al minuto: continuar cuidados de rutina y revalorar a los 5 minutos."},
		{When: total < 7 && p.evaluationTime == ApgarMinute1, Message: "Puntaje bajo al minuto: iniciar maniobras de reanimación según algoritmo neonatal y revalorar a los 5 minutos."},
		{When: total < 7 && p.evaluationTime == ApgarMinute5, Message: "Puntaje < 7 a los 5 minutos: continuar reanimación y repetir la valoración cada 5 minutos hasta los 20 minutos."},
		{When: total < 7 && p.evaluationTime == ApgarMinute10, Message: "Puntaje < 7 a los 10 minutos: se asocia a mayor riesgo de compromiso neurológico; documentar gasometría de cordón."},
		{When: total <= 3, Message: "Depresión severa: soporte ventilatorio inmediato y valorar compresiones torácicas según frecuencia cardiaca."},
	})

	return &engine.CalculationResult{
		CalculatorID: a.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"total_score":     engine.FormatInt(total),
			"category":        apgarCategory(total),
			"evaluation_time": p.evaluationTime,
			"recommendations": recommendations,
		},
	}, nil
}

func (a Apgar) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Apgar a los %s: %s puntos — %s",
		res.Results["evaluation_time"], res.Results["total_score"], res.Results["category"]))
	n.Section("Componentes",
		"Frecuencia cardiaca, esfuerzo respiratorio, tono muscular, irritabilidad refleja y coloración: 0 – 2 puntos cada uno")
	n.Section("Valores de referencia",
		"Condición normal: 7 – 10",
		"Depresión moderada: 4 – 6",
		"Depresión severa: 0 – 3")
	n.Section("Recomendaciones", res.Results["recommendations"])
	n.Section("Limitaciones",
		"El puntaje aislado no define asfixia perinatal ni predice por sí solo el pronóstico neurológico.")
	return n.String()
}

func (Apgar) References() []engine.Reference {
	return []engine.Reference{
		{Title: "A proposal for a new method of evaluation of the newborn infant", Source: "Current Researches in Anesthesia & Analgesia", Year: 1953},
		{Title: "The Apgar Score", Source: "American Academy of Pediatrics, Committee Opinion", Year: 2015},
	}
}
