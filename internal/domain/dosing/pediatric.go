package dosing

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// PediatricDosage computes a pediatric daily dose from a per-drug reference
// dose (or a custom one), adjusted in a fixed chain: severity tier, age band,
// drug-specific contraindication zeroing and renal tier. Exceeding the
// per-drug maximum daily dose raises a warning, never a hard block.
type PediatricDosage struct{}

func NewPediatricDosage() *PediatricDosage { return &PediatricDosage{} }

func (PediatricDosage) ID() string { return "pediatric_dosage" }

const MedicationCustom = "Otro (dosis personalizada)"

const (
	SeverityMild     = "Leve"
	SeverityModerate = "Moderada"
	SeveritySevere   = "Grave"
)

const (
	RenalNormal   = "Normal"
	RenalMild     = "Insuficiencia leve"
	RenalModerate = "Insuficiencia moderada"
	RenalSevere   = "Insuficiencia severa"
)

// pediatricDrug holds the reference dosing data for one medication.
type pediatricDrug struct {
	DosePerKg    float64 // mg/kg/día
	MaxDailyDose float64 // mg/día
	MinAgeMonths int
}

// pediatricDrugs is the per-drug reference table.
var pediatricDrugs = map[string]pediatricDrug{
	"Paracetamol":  {DosePerKg: 60, MaxDailyDose: 4000, MinAgeMonths: 0},
	"Ibuprofeno":   {DosePerKg: 30, MaxDailyDose: 2400, MinAgeMonths: 6},
	"Amoxicilina":  {DosePerKg: 50, MaxDailyDose: 3000, MinAgeMonths: 0},
	"Azitromicina": {DosePerKg: 10, MaxDailyDose: 500, MinAgeMonths: 6},
	"Cefalexina":   {DosePerKg: 50, MaxDailyDose: 4000, MinAgeMonths: 0},
	"Naproxeno":    {DosePerKg: 15, MaxDailyDose: 1000, MinAgeMonths: 24},
}

var severityFactors = map[string]float64{
	SeverityMild:     0.8,
	SeverityModerate: 1.0,
	SeveritySevere:   1.2,
}

var renalFactors = map[string]float64{
	RenalNormal:   1.0,
	RenalMild:     0.8,
	RenalModerate: 0.6,
	RenalSevere:   0.4,
}

func pediatricMedicationOptions() []string {
	return []string{
		"Paracetamol", "Ibuprofeno", "Amoxicilina",
		"Azitromicina", "Cefalexina", "Naproxeno",
		MedicationCustom,
	}
}

type pediatricInput struct {
	medication    string
	customDose    float64 // mg/kg/día, only for MedicationCustom
	weight        float64 // kg
	ageMonths     float64
	dosesPerDay   int
	severity      string
	premature     bool
	renalFunction string
}

func (PediatricDosage) parse(in engine.FieldValues) (pediatricInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := pediatricInput{
		medication:    f.Enum("medication", "Medicamento", pediatricMedicationOptions()...),
		weight:        f.Float("weight", "Peso (kg)", 0.5, 120),
		ageMonths:     f.Float("age_months", "Edad (meses)", 0, 216),
		dosesPerDay:   f.Int("doses_per_day", "Dosis por día", 1, 6),
		severity:      f.Enum("severity", "Severidad del cuadro", SeverityMild, SeverityModerate, SeveritySevere),
		premature:     f.Bool("premature", "Paciente prematuro"),
		renalFunction: f.EnumOpt("renal_function", "Función renal", RenalNormal, RenalNormal, RenalMild, RenalModerate, RenalSevere),
	}
	// The custom dose is required only when no table drug was chosen.
	if p.medication == MedicationCustom {
		p.customDose = f.Float("custom_dose_per_kg", "Dosis personalizada (mg/kg/día)", 0.01, 100)
	}
	return p, f.Result()
}

func (p PediatricDosage) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := p.parse(in)
	return vr
}

func (pd PediatricDosage) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := pd.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	var basePerKg float64
	var drug pediatricDrug
	var isTableDrug bool
	if p.medication == MedicationCustom {
		basePerKg = p.customDose
	} else {
		drug, isTableDrug = pediatricDrugs[p.medication]
		if !isTableDrug {
			return nil, fmt.Errorf("medicamento no soportado: %q", p.medication)
		}
		basePerKg = drug.DosePerKg
	}

	sevFactor, ok := severityFactors[p.severity]
	if !ok {
		return nil, fmt.Errorf("severidad no soportada: %q", p.severity)
	}
	renalFactor, ok := renalFactors[p.renalFunction]
	if !ok {
		return nil, fmt.Errorf("función renal no soportada: %q", p.renalFunction)
	}

	// Adjustment chain in fixed order: severity, age band, contraindication,
	// renal function.
	adjusted := basePerKg * sevFactor

	isNeonate := p.ageMonths < 1
	isInfant := p.ageMonths >= 1 && p.ageMonths < 12
	switch {
	case isNeonate:
		adjusted *= 0.5
	case isInfant:
		adjusted *= 0.8
	}
	if p.premature && p.ageMonths < 12 {
		adjusted *= 0.7
	}

	contraindicated := isTableDrug && p.ageMonths < float64(drug.MinAgeMonths)
	if contraindicated {
		adjusted = 0
	}

	adjusted *= renalFactor

	totalDaily := adjusted * p.weight
	perDose := totalDaily / float64(p.dosesPerDay)
	exceedsMax := isTableDrug && drug.MaxDailyDose > 0 && totalDaily > drug.MaxDailyDose

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: contraindicated, Message: fmt.Sprintf("%s está contraindicado en menores de %d meses: no administrar.", p.medication, drug.MinAgeMonths)},
		{When: exceedsMax, Message: fmt.Sprintf("La dosis diaria calculada excede el máximo recomendado de %s mg/día para %s.", engine.FormatFloat(drug.MaxDailyDose, 0), p.medication)},
		{When: isNeonate && !contraindicated, Message: "Paciente neonato: dosis reducida al 50%; confirmar con neonatología antes de administrar."},
		{When: p.premature && p.ageMonths < 12, Message: "Paciente prematuro: se aplicó reducción adicional del 30%."},
		{When: p.renalFunction != RenalNormal, Message: "Función renal alterada: dosis ajustada; vigilar niveles séricos cuando esté disponible."},
	})

	monitoring := engine.JoinAdvisories([]engine.Advisory{
		{When: p.medication == "Ibuprofeno" || p.medication == "Naproxeno", Message: "Vigilar datos de sangrado gastrointestinal y función renal con uso sostenido de AINE."},
		{When: p.medication == "Paracetamol", Message: "No exceder la dosis máxima diaria; riesgo de hepatotoxicidad."},
		{When: p.renalFunction == RenalModerate || p.renalFunction == RenalSevere, Message: "Revalorar función renal antes de cada ajuste de dosis."},
	})

	return &engine.CalculationResult{
		CalculatorID: pd.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"adjusted_dose_per_kg":    engine.FormatFloat(adjusted, 2),
			"total_daily_dose":        engine.FormatFloat(totalDaily, 1),
			"dose_per_administration": engine.FormatFloat(perDose, 1),
			"safety_warnings":         warnings,
			"monitoring":              monitoring,
		},
	}, nil
}

func (pd PediatricDosage) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Dosis diaria total: %s mg — %s mg por toma (dosis ajustada: %s mg/kg/día)",
		res.Results["total_daily_dose"], res.Results["dose_per_administration"], res.Results["adjusted_dose_per_kg"]))
	n.Section("Cadena de ajuste",
		"Dosis base del medicamento × factor de severidad (0.8 / 1.0 / 1.2)",
		"Reducción por edad: neonato × 0.5, lactante × 0.8, prematuro × 0.7 adicional",
		"Ajuste por función renal: 1.0 / 0.8 / 0.6 / 0.4")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Vigilancia", res.Results["monitoring"])
	n.Section("Limitaciones",
		"Las dosis de referencia son orientativas; la prescripción final corresponde al médico tratante.",
		"No considera interacciones medicamentosas ni insuficiencia hepática.")
	return n.String()
}

func (PediatricDosage) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Pediatric & Neonatal Dosage Handbook", Source: "Lexicomp", Year: 2023},
		{Title: "Guía de dosificación pediátrica", Source: "Academia Mexicana de Pediatría", Year: 2019},
	}
}
