package dosing

import (
	"fmt"

	"github.com/clinicalc/clinicalc/internal/engine"
)

// UnitConverter converts between the clinical units used at the bedside.
// Seven conversion directions are supported; the categorical inputs select
// the conversion constant (concentration, equivalent weight or insulin
// concentration) and each direction has its own fixed precision.
type UnitConverter struct{}

func NewUnitConverter() *UnitConverter { return &UnitConverter{} }

func (UnitConverter) ID() string { return "unit_converter" }

const (
	ConvertMgToML    = "mg a mL"
	ConvertMLToMg    = "mL a mg"
	ConvertMgToMEq   = "mg a mEq"
	ConvertMEqToMg   = "mEq a mg"
	ConvertMgToMcg   = "mg a mcg"
	ConvertMcgToMg   = "mcg a mg"
	ConvertUnitsToML = "Unidades a mL"
)

// equivalentWeights maps each supported substance to its equivalent weight
// in mg per mEq.
var equivalentWeights = map[string]float64{
	"Cloruro de sodio":     58.44,
	"Cloruro de potasio":   74.55,
	"Bicarbonato de sodio": 84.01,
	"Sulfato de magnesio":  123.23,
	"Gluconato de calcio":  448.4,
}

// insulinConcentrations maps each insulin presentation to units per mL.
var insulinConcentrations = map[string]float64{
	"U-100": 100,
	"U-40":  40,
}

var substanceOptions = []string{
	"Cloruro de sodio",
	"Cloruro de potasio",
	"Bicarbonato de sodio",
	"Sulfato de magnesio",
	"Gluconato de calcio",
}

var insulinOptions = []string{"U-100", "U-40"}

type converterInput struct {
	conversionType string
	value          float64
	concentration  float64 // mg/mL, only for mg↔mL
	substance      string  // only for mEq↔mg
	insulinType    string  // only for Unidades a mL
}

func (UnitConverter) parse(in engine.FieldValues) (converterInput, engine.ValidationResult) {
	f := engine.NewForm(in)
	p := converterInput{
		conversionType: f.Enum("conversion_type", "Tipo de conversión",
			ConvertMgToML, ConvertMLToMg, ConvertMgToMEq, ConvertMEqToMg,
			ConvertMgToMcg, ConvertMcgToMg, ConvertUnitsToML),
		value: f.Float("value", "Valor a convertir", 0.000001, 1000000),
	}

	switch p.conversionType {
	case ConvertMgToML, ConvertMLToMg:
		p.concentration = f.Float("concentration", "Concentración (mg/mL)", 0.01, 1000)
	case ConvertMgToMEq, ConvertMEqToMg:
		p.substance = f.Enum("substance", "Sustancia", substanceOptions...)
	case ConvertUnitsToML:
		p.insulinType = f.Enum("insulin_type", "Tipo de insulina", insulinOptions...)
	}
	return p, f.Result()
}

func (u UnitConverter) Validate(in engine.FieldValues) engine.ValidationResult {
	_, vr := u.parse(in)
	return vr
}

func (u UnitConverter) Calculate(in engine.FieldValues) (*engine.CalculationResult, error) {
	p, vr := u.parse(in)
	if err := vr.Err(); err != nil {
		return nil, err
	}

	var result float64
	var unit string
	var decimals int

	switch p.conversionType {
	case ConvertMgToML:
		result, unit, decimals = p.value/p.concentration, "mL", 2
	case ConvertMLToMg:
		result, unit, decimals = p.value*p.concentration, "mg", 1
	case ConvertMgToMEq:
		result, unit, decimals = p.value/equivalentWeights[p.substance], "mEq", 2
	case ConvertMEqToMg:
		result, unit, decimals = p.value*equivalentWeights[p.substance], "mg", 1
	case ConvertMgToMcg:
		result, unit, decimals = p.value*1000, "mcg", 1
	case ConvertMcgToMg:
		result, unit, decimals = p.value/1000, "mg", 3
	case ConvertUnitsToML:
		result, unit, decimals = p.value/insulinConcentrations[p.insulinType], "mL", 2
	default:
		return nil, fmt.Errorf("tipo de conversión no soportado: %q", p.conversionType)
	}

	warnings := engine.JoinAdvisories([]engine.Advisory{
		{When: p.conversionType == ConvertUnitsToML, Message: "Usar siempre jeringa de insulina graduada para la presentación indicada; no intercambiar jeringas U-100 y U-40."},
		{When: (p.conversionType == ConvertMgToML || p.conversionType == ConvertMLToMg) && p.concentration < 1, Message: "Concentración menor a 1 mg/mL: verificar la etiqueta del producto antes de administrar."},
	})

	return &engine.CalculationResult{
		CalculatorID: u.ID(),
		Inputs:       in.Clone(),
		Results: engine.FieldValues{
			"result":          engine.FormatFloat(result, decimals),
			"unit":            unit,
			"safety_warnings": warnings,
		},
	}, nil
}

func (u UnitConverter) Interpret(res *engine.CalculationResult) string {
	var n engine.Narrative
	n.Headline(fmt.Sprintf("Resultado: %s %s", res.Results["result"], res.Results["unit"]))
	n.Section("Conversiones disponibles",
		"mg ↔ mL mediante la concentración del producto",
		"mEq ↔ mg mediante el peso equivalente de la sustancia",
		"mg ↔ mcg (factor 1000)",
		"Unidades de insulina → mL según la presentación (U-100, U-40)")
	n.Section("Advertencias", res.Results["safety_warnings"])
	n.Section("Limitaciones",
		"El resultado depende de la concentración o sustancia seleccionada; verificar contra la etiqueta del producto.")
	return n.String()
}

func (UnitConverter) References() []engine.Reference {
	return []engine.Reference{
		{Title: "Farmacología clínica: equivalencias y conversión de unidades", Source: "Goodman & Gilman", Year: 2018},
		{Title: "ISMP List of Error-Prone Abbreviations, Symbols, and Dose Designations", Source: "Institute for Safe Medication Practices", URL: "https://www.ismp.org/recommendations/error-prone-abbreviations-list"},
	}
}
