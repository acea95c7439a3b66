package scores

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// Glasgow computes the Glasgow Coma Scale: eye (1–4) + verbal (1–5) +
// motor (1–6), total range 3–15. The intubation and sedation flags only
// qualify the narrative; they never change the sum.
type Glasgow struct{}

func NewGlasgow() *Glasgow { return &Glasgow{} }

func (Glasgow) ID() string { return "glasgow_coma_scale" }

type glasgowInput struct {
	eye, verbal, motor int
	intubated, sedated bool
}

func (Glasgow) parse(in engine.FieldValues) (glasgowInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := glasgowInput{
		eye:       f.Int("eye_response", "Respuesta ocular", 1, 4),
		verbal:    f.Int("verbal_response", "Respuesta verbal", 1, 5),
		motor:     f.Int("motor_response", "Respuesta motora", 1, 6),
		intubated: f.Bool("intubated", "Paciente intubado"),
		sedated:   f.Bool("sedated", "Paciente sedado"),
	}
	return p, f.Result()
}

func (g Glasgow) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := g.parse(in)
	return vr
}

func glasgowCategory(total int) string {
	switch {
	case total >= 13:
		return "Alteración leve de la conciencia"
	case total >= 9:
		return "Alteración moderada de la conciencia"
	default:
		return "Alteración grave de la conciencia"
	}
}

func (g Glasgow) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := g.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	total := p.eye + p.verbal + p.motor

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: total <= 8, Message: "Puntaje ≤ 8: valorar protección de la vía aérea (intubación orotraqueal)."},
		{When: p.intubated, Message: "Paciente intubado: la respuesta verbal no es valorable; registrar el puntaje con sufijo T."},
		{When: p.sedated, Message: "Paciente bajo sedación: el puntaje subestima el estado neurológico real; revalorar en ventana de sedación."},
	})

	return &engine.CalculationResult{
		CalculatorID: g.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"total_score":     engine.FormatInt(total),
			"category":        glasgowCategory(total),
			"safety_warnings": warnings,
		},
	}, nil
}

func (g Glasgow) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Escala de coma de Glasgow: %s puntos — %s", res.Results["total_score"], res.Results["category"]))
	n.Section("Componentes",
		"Respuesta ocular: 1 – 4",
		"Respuesta verbal: 1 – 5",
		"Respuesta motora: 1 – 6")
	n.Section("Valores de referencia",
		"Alteración leve: 13 – 15",
		"Alteración moderada: 9 – 12",
		"Alteración grave: 3 – 8")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"Intubación, sedación, afasia y trauma facial limitan la valoración de los componentes.")
	return n.String()
}

func (Glasgow) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Assessment of coma and impaired consciousness: a practical scale", Source: "The Lancet", Year: 1974},
		{Title: "The Glasgow structured approach to assessment of the Glasgow Coma Scale", Source: "glasgowcomascale.org", URL: "https://www.glasgowcomascale.org"},
	}
}
