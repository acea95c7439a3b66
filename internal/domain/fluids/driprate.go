// Package fluids holds the fluid-therapy calculators: IV drip rate, 24-hour
// fluid balance and electrolyte replacement management.
package fluids

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// DripRate computes the IV infusion flow rate (mL/h) and drip rate (gtt/min)
// for a volume, infusion time and administration set. Fluid type and weight
// only drive warning generation.
type DripRate struct{}

func NewDripRate() *DripRate { return &DripRate{} }

func (DripRate) ID() string { return "iv_drip_rate" }

// dropFactors maps each administration set to its drops-per-mL rating.
var dropFactors = map[string]float64{
	"Macrogotero (10 gtt/mL)": 10,
	"Macrogotero (15 gtt/mL)": 15,
	"Macrogotero (20 gtt/mL)": 20,
	"Microgotero (60 gtt/mL)": 60,
}

var equipmentOptions = []string{
	"Macrogotero (10 gtt/mL)",
	"Macrogotero (15 gtt/mL)",
	"Macrogotero (20 gtt/mL)",
	"Microgotero (60 gtt/mL)",
}

const (
	FluidSaline   = "Solución salina 0.9%"
	FluidGlucose  = "Solución glucosada 5%"
	FluidHartmann = "Solución Hartmann"
	FluidBlood    = "Sangre y hemoderivados"
)

type dripInput struct {
	volume    float64 // mL
	timeHours float64
	equipment string
	fluidType string
	weight    float64 // kg, 0 when not provided
}

func (DripRate) parse(in engine.FieldValues) (dripInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := dripInput{
		volume:    f.Float("volume", "Volumen a infundir (mL)", 1, 5000),
		timeHours: f.Float("time_hours", "Tiempo de infusión (horas)", 0.5, 96),
		equipment: f.Enum("equipment_type", "Tipo de equipo", equipmentOptions...),
		fluidType: f.EnumOpt("fluid_type", "Tipo de solución", "", FluidSaline, FluidGlucose, FluidHartmann, FluidBlood),
		weight:    f.FloatOpt("weight", "Peso (kg)", 0.5, 250, 0),
	}
	return p, f.Result()
}

func (d DripRate) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := d.parse(in)
	return vr
}

func (d DripRate) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := d.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	dropFactor, ok := dropFactors[p.equipment]
	if !ok {
		return nil, fmt.Errorf("tipo de equipo no soportado: %q", p.equipment)
	}

	flowRate := p.volume / p.timeHours
	dripRate := p.volume * dropFactor / (p.timeHours * 60)

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: flowRate > 300, Message: "Velocidad de infusión mayor a 300 mL/h: riesgo de sobrecarga hídrica; se requiere vigilancia continua."},
		{When: flowRate > 200 && flowRate <= 300, Message: "Velocidad de infusión mayor a 200 mL/h: valorar estado cardiovascular del paciente."},
		{When: dripRate > 60, Message: "Goteo mayor a 60 gtt/min: difícil de contar con precisión; considerar bomba de infusión."},
		{When: dripRate < 5, Message: "Goteo menor a 5 gtt/min: riesgo de obstrucción del acceso venoso; considerar bomba de infusión."},
		{When: p.fluidType == FluidBlood && dropFactor == 60, Message: "Los hemoderivados no deben administrarse con microgotero; usar equipo con filtro para transfusión."},
		{When: p.weight > 0 && p.weight < 10 && flowRate > p.weight*10, Message: "Paciente pediátrico: la velocidad excede 10 mL/kg/h; verificar la indicación."},
	})

	return &engine.CalculationResult{
		CalculatorID: d.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"flow_rate":       engine.FormatFloat(flowRate, 1),
			"drip_rate":       engine.FormatFloat(dripRate, 1),
			"safety_warnings": warnings,
		},
	}, nil
}

func (d DripRate) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Velocidad de infusión: %s mL/h — Goteo: %s gtt/min",
		res.Results["flow_rate"], res.Results["drip_rate"]))
	n.Section("Fórmula",
		"Velocidad (mL/h) = volumen / tiempo (h)",
		"Goteo (gtt/min) = volumen × factor de goteo / (tiempo (h) × 60)")
	n.Section("Factores de goteo",
		"Macrogotero: 10, 15 o 20 gtt/mL",
		"Microgotero: 60 gtt/mL")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"El goteo por gravedad es aproximado; para fármacos de alto riesgo usar bomba de infusión.")
	return n.String()
}

func (DripRate) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Terapia de infusión intravenosa", Source: "Norma Oficial Mexicana NOM-022-SSA3", Year: 2012},
		{Title: "Infusion Therapy Standards of Practice", Source: "Infusion Nurses Society", Year: 2021},
	}
}
