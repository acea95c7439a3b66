package fluids

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// FluidBalance computes the 24-hour fluid balance: measured intake minus
// measured output and estimated insensible losses. Each intake/output field
// left blank counts as zero; the clinical flags scale the insensible-loss
// estimate in a fixed order.
type FluidBalance struct{}

func NewFluidBalance() *FluidBalance { return &FluidBalance{} }

func (FluidBalance) ID() string { return "fluid_balance" }

type balanceInput struct {
	oral, ivFluids, medicationVolume, bloodProducts float64
	urine, drainages, vomiting, diarrhea            float64
	weight                                          float64
	fever, mechanicalVentilation                    bool
	hyperventilation, warmEnvironment               bool
}

func (FluidBalance) parse(in engine.FieldValues) (balanceInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := balanceInput{
		oral:                  f.FloatOpt("oral_intake", "Ingesta oral (mL)", 0, 10000, 0),
		ivFluids:              f.FloatOpt("iv_fluids", "Soluciones intravenosas (mL)", 0, 10000, 0),
		medicationVolume:      f.FloatOpt("medication_volume", "Volumen de medicamentos (mL)", 0, 5000, 0),
		bloodProducts:         f.FloatOpt("blood_products", "Hemoderivados (mL)", 0, 5000, 0),
		urine:                 f.FloatOpt("urine_output", "Diuresis (mL)", 0, 10000, 0),
		drainages:             f.FloatOpt("drainages", "Drenajes (mL)", 0, 5000, 0),
		vomiting:              f.FloatOpt("vomiting", "Vómito (mL)", 0, 5000, 0),
		diarrhea:              f.FloatOpt("diarrhea", "Evacuaciones líquidas (mL)", 0, 5000, 0),
		weight:                f.Float("weight", "Peso (kg)", 0.5, 250),
		fever:                 f.Bool("fever", "Fiebre"),
		mechanicalVentilation: f.Bool("mechanical_ventilation", "Ventilación mecánica"),
		hyperventilation:      f.Bool("hyperventilation", "Hiperventilación"),
		warmEnvironment:       f.Bool("warm_environment", "Ambiente cálido"),
	}
	return p, f.Result()
}

func (b FluidBalance) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := b.parse(in)
	return vr
}

// insensibleLosses estimates 24-hour insensible losses: a 0.5 mL/kg/h base
// with multiplicative adjustments applied in fixed order.
func insensibleLosses(p balanceInput) float64 {
	losses := 0.5 * p.weight * 24
	if p.fever {
		losses *= 1.2
	}
	if p.hyperventilation {
		losses *= 1.1
	}
	if p.warmEnvironment {
		losses *= 1.15
	}
	if p.mechanicalVentilation {
		// Humidified circuit reduces respiratory losses.
		losses *= 0.75
	}
	return losses
}

func balanceCategory(balance float64) string {
	switch {
	case balance > 500:
		return "Balance positivo"
	case balance < -500:
		return "Balance negativo"
	default:
		return "Balance neutro"
	}
}

func (b FluidBalance) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := b.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	totalIntake := p.oral + p.ivFluids + p.medicationVolume + p.bloodProducts
	totalOutput := p.urine + p.drainages + p.vomiting + p.diarrhea
	insensible := insensibleLosses(p)
	balance := totalIntake - (totalOutput + insensible)

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: balance > 1000, Message: "Balance positivo mayor a 1000 mL: riesgo de sobrecarga hídrica; valorar restricción de líquidos."},
		{When: balance < -1000, Message: "Balance negativo mayor a 1000 mL: riesgo de deshidratación; valorar reposición."},
		{When: p.urine > 0 && p.urine < 0.5*p.weight*24, Message: "Diuresis menor a 0.5 mL/kg/h: valorar lesión renal aguda."},
		{When: p.fever, Message: "La fiebre incrementa las pérdidas insensibles en un 20%."},
	})

	return &engine.CalculationResult{
		CalculatorID: b.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"total_intake":      engine.FormatFloat(totalIntake, 0),
			"total_output":      engine.FormatFloat(totalOutput, 0),
			"insensible_losses": engine.FormatFloat(insensible, 0),
			"balance":           engine.FormatFloat(balance, 0),
			"category":          balanceCategory(balance),
			"safety_warnings":   warnings,
		},
	}, nil
}

func (b FluidBalance) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Balance hídrico de 24 horas: %s mL — %s",
		res.Results["balance"], res.Results["category"]))
	n.Section("Desglose",
		fmt.Sprintf("Ingresos totales: %s mL", res.Results["total_intake"]),
		fmt.Sprintf("Egresos medidos: %s mL", res.Results["total_output"]),
		fmt.Sprintf("Pérdidas insensibles estimadas: %s mL", res.Results["insensible_losses"]))
	n.Section("Fórmula",
		"Balance = ingresos − (egresos + pérdidas insensibles)",
		"Pérdidas insensibles base: 0.5 mL/kg/h; ajustes por fiebre (×1.2), hiperventilación (×1.1), ambiente cálido (×1.15) y ventilación mecánica (×0.75)")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"Las pérdidas insensibles son una estimación; quemaduras extensas y fístulas requieren cálculo específico.")
	return n.String()
}

func (FluidBalance) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Fluid balance monitoring in critically ill patients", Source: "Critical Care Nursing", Year: 2019},
		{Title: "Agua y electrolitos en pediatría y adultos", Source: "Manual Moderno", Year: 2016},
	}
}
