package fluids

import (
	"fmt"
	"math"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// ElectrolyteManagement computes sodium or potassium replacement. Sodium
// correction is capped at 12 mEq/L per 24 hours (scaled to the correction
// window), with a 1.25× allowance when neurologic symptoms are present and
// the window is at least 24 hours. Potassium dosing is capped per route and
// scaled down for renal impairment; the IV infusion rate is capped at
// 20 mEq/h, or 10 mEq/h with cardiac abnormality.
type ElectrolyteManagement struct{}

func NewElectrolyteManagement() *ElectrolyteManagement { return &ElectrolyteManagement{} }

func (ElectrolyteManagement) ID() string { return "electrolyte_management" }

const (
	ElectrolyteSodium    = "Sodio"
	ElectrolytePotassium = "Potasio"

	RouteOral = "Oral"
	RouteIV   = "Intravenosa"
)

const (
	salineConcentration = 154  // mEq/L in 0.9% saline
	maxSodiumPer24h     = 12   // mEq/L
	oralPotassiumCap    = 80   // mEq
	ivPotassiumCap      = 40   // mEq
	ivRateCap           = 20.0 // mEq/h
	ivRateCapCardiac    = 10.0 // mEq/h
)

type electrolyteInput struct {
	electrolyte string

	// sodium branch
	currentSodium   float64
	targetSodium    float64
	correctionHours float64
	neurologic      bool

	// potassium branch
	currentPotassium float64
	targetPotassium  float64
	route            string
	renalFunction    string
	cardiacAbnormal  bool

	weight float64
}

var electrolyteRenalFactors = map[string]float64{
	"Normal":                 1.0,
	"Insuficiencia leve":     0.75,
	"Insuficiencia moderada": 0.6,
	"Insuficiencia severa":   0.4,
}

func (ElectrolyteManagement) parse(in engine.FieldValues) (electrolyteInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := electrolyteInput{
		electrolyte: f.Enum("electrolyte", "Electrolito", ElectrolyteSodium, ElectrolytePotassium),
		weight:      f.Float("weight", "Peso (kg)", 0.5, 250),
	}

	// Each branch owns its conditionally required field set.
	switch p.electrolyte {
	case ElectrolyteSodium:
		p.currentSodium = f.Float("current_sodium", "Sodio sérico actual (mEq/L)", 100, 155)
		p.targetSodium = f.Float("target_sodium", "Sodio sérico objetivo (mEq/L)", 120, 150)
		p.correctionHours = f.Float("correction_time_hours", "Tiempo de corrección (horas)", 12, 72)
		p.neurologic = f.Bool("neurologic_symptoms", "Síntomas neurológicos")
		if p.currentSodium > 0 && p.targetSodium > 0 && p.targetSodium <= p.currentSodium {
			return p, engine.NewValidationResult(append(f.Errors(),
				"El sodio objetivo debe ser mayor que el sodio actual"))
		}
	case ElectrolytePotassium:
		p.currentPotassium = f.Float("current_potassium", "Potasio sérico actual (mEq/L)", 1.5, 6.5)
		p.targetPotassium = f.Float("target_potassium", "Potasio sérico objetivo (mEq/L)", 3.0, 5.5)
		p.route = f.Enum("route", "Vía de administración", RouteOral, RouteIV)
		p.renalFunction = f.EnumOpt("renal_function", "Función renal", "Normal",
			"Normal", "Insuficiencia leve", "Insuficiencia moderada", "Insuficiencia severa")
		p.cardiacAbnormal = f.Bool("cardiac_abnormal", "Alteración cardiaca")
		if p.currentPotassium > 0 && p.targetPotassium > 0 && p.targetPotassium <= p.currentPotassium {
			return p, engine.NewValidationResult(append(f.Errors(),
				"El potasio objetivo debe ser mayor que el potasio actual"))
		}
	}
	return p, f.Result()
}

func (e ElectrolyteManagement) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := e.parse(in)
	return vr
}

func (e ElectrolyteManagement) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := e.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	switch p.electrolyte {
	case ElectrolyteSodium:
		return e.calculateSodium(in, p)
	case ElectrolytePotassium:
		return e.calculatePotassium(in, p)
	}
	return nil, fmt.Errorf("electrolito no soportado: %q", p.electrolyte)
}

func (e ElectrolyteManagement) calculateSodium(in engine.FieldValues, p electrolyteInput) (*engine.CalculationResult, error) {
	deficit := (p.targetSodium - p.currentSodium) * p.weight * 0.6

	// Maximum safe correction for the chosen window, from the 12 mEq/L per
	// 24 h limit. The 1.25× neurologic allowance applies only when the
	// correction window is at least 24 hours.
	maxSafe := maxSodiumPer24h * p.weight * 0.6 * (p.correctionHours / 24)
	if p.neurologic && p.correctionHours >= 24 {
		maxSafe *= 1.25
	}

	corrected := math.Min(deficit, maxSafe)
	rate := corrected / p.correctionHours
	solutionVolume := corrected / salineConcentration * 1000

	capped := deficit > maxSafe
	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: capped, Message: "El déficit calculado excede la corrección máxima segura: se limitó la velocidad para evitar desmielinización osmótica."},
		{When: p.neurologic && p.correctionHours >= 24, Message: "Síntomas neurológicos presentes: se aplicó margen de corrección ampliado (×1.25)."},
		{When: p.neurologic && p.correctionHours < 24, Message: "Síntomas neurológicos con ventana menor a 24 horas: el margen ampliado no aplica; considerar bolos de solución hipertónica bajo supervisión."},
		{When: p.currentSodium < 120, Message: "Sodio sérico menor a 120 mEq/L: hiponatremia severa; manejo en unidad de cuidados intensivos."},
	})

	monitoring := engine.JoinAdvisories([]engine.Advisory{
		{When: true, Message: "Control de sodio sérico cada 4 a 6 horas durante la corrección."},
		{When: capped, Message: "Suspender la infusión si la corrección supera 12 mEq/L en 24 horas."},
	})

	return &engine.CalculationResult{
		CalculatorID: e.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"electrolyte":             ElectrolyteSodium,
			"sodium_deficit":          engine.FormatFloat(deficit, 1),
			"corrected_deficit":       engine.FormatFloat(corrected, 1),
			"sodium_replacement_rate": engine.FormatFloat(rate, 2),
			"solution_volume":         engine.FormatFloat(solutionVolume, 0),
			"safety_warnings":         warnings,
			"monitoring":              monitoring,
		},
	}, nil
}

func (e ElectrolyteManagement) calculatePotassium(in engine.FieldValues, p electrolyteInput) (*engine.CalculationResult, error) {
	renalFactor, ok := electrolyteRenalFactors[p.renalFunction]
	if !ok {
		return nil, fmt.Errorf("función renal no soportada: %q", p.renalFunction)
	}

	deficit := (p.targetPotassium - p.currentPotassium) * p.weight * 4

	routeCap := float64(oralPotassiumCap)
	if p.route == RouteIV {
		routeCap = float64(ivPotassiumCap)
	}
	dose := math.Min(deficit, routeCap) * renalFactor

	results := engine.FieldValues{
		"electrolyte":       ElectrolytePotassium,
		"potassium_deficit": engine.FormatFloat(deficit, 1),
		"recommended_dose":  engine.FormatFloat(dose, 1),
	}

	var infusionRate float64
	if p.route == RouteIV {
		infusionRate = ivRateCap
		if p.cardiacAbnormal {
			infusionRate = ivRateCapCardiac
		}
		results["max_infusion_rate"] = engine.FormatFloat(infusionRate, 0)
		results["infusion_time"] = engine.FormatFloat(dose/infusionRate, 1)
	}

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: deficit > dose, Message: "El déficit excede la dosis máxima por administración: programar dosis fraccionadas con control sérico intermedio."},
		{When: p.route == RouteIV, Message: "La reposición intravenosa de potasio requiere acceso venoso adecuado y bomba de infusión."},
		{When: p.cardiacAbnormal, Message: "Alteración cardiaca: velocidad de infusión limitada a 10 mEq/h con monitoreo electrocardiográfico continuo."},
		{When: renalFactor < 1, Message: "Función renal alterada: dosis reducida por riesgo de hiperkalemia."},
		{When: p.currentPotassium < 2.5, Message: "Potasio sérico menor a 2.5 mEq/L: hipokalemia severa; vigilar arritmias."},
	})

	monitoring := engine.JoinAdvisories([]engine.Advisory{
		{When: p.route == RouteIV, Message: "Monitoreo electrocardiográfico durante la infusión y control de potasio sérico al término."},
		{When: p.route == RouteOral, Message: "Control de potasio sérico a las 24 horas de la reposición."},
		{When: renalFactor < 1, Message: "Control de función renal y potasio antes de repetir dosis."},
	})

	results["safety_warnings"] = warnings
	results["monitoring"] = monitoring

	return &engine.CalculationResult{
		CalculatorID: e.ID(),
		Inputs:       in.Clone(),
		Results:      results,
	}, nil
}

func (e ElectrolyteManagement) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	switch res.Results["electrolyte"] {
	case ElectrolyteSodium:
		n.Headline(fmt.Sprintf("Déficit de sodio: %s mEq — Velocidad de reposición: %s mEq/h (%s mL de solución salina 0.9%%)",
			res.Results["corrected_deficit"], res.Results["sodium_replacement_rate"], res.Results["solution_volume"]))
		n.Section("Fórmula",
			"Déficit (mEq) = (sodio objetivo − sodio actual) × peso × 0.6",
			"Corrección máxima: 12 mEq/L por 24 horas, ajustada a la ventana de corrección",
			"Volumen de solución calculado con 154 mEq/L (salina 0.9%)")
	case ElectrolytePotassium:
		n.Headline(fmt.Sprintf("Déficit de potasio: %s mEq — Dosis recomendada: %s mEq",
			res.Results["potassium_deficit"], res.Results["recommended_dose"]))
		n.Section("Fórmula",
			"Déficit (mEq) = (potasio objetivo − potasio actual) × peso × 4",
			"Dosis máxima por administración: 80 mEq vía oral, 40 mEq vía intravenosa",
			"Velocidad máxima de infusión: 20 mEq/h (10 mEq/h con alteración cardiaca)")
		if t, ok := res.Results["infusion_time"]; ok {
			n.Section("Infusión",
				fmt.Sprintf("Tiempo mínimo de infusión: %s horas a %s mEq/h", t, res.Results["max_infusion_rate"]))
		}
	}
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Vigilancia", res.Results["monitoring"])
	n.Section("Limitaciones",
		"El cálculo asume agua corporal total estándar; edad avanzada, embarazo y obesidad alteran la distribución.",
		"La corrección de electrolitos exige control sérico seriado; el cálculo no sustituye la medición.")
	return n.String()
}

func (ElectrolyteManagement) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Diagnosis, evaluation, and treatment of hyponatremia", Source: "American Journal of Medicine, Expert Panel Recommendations", Year: 2013},
		{Title: "Guía de práctica clínica: Trastornos del sodio y potasio", Source: "IMSS", Year: 2016},
		{Title: "Potassium replacement protocols", Source: "UpToDate", Year: 2023},
	}
}
