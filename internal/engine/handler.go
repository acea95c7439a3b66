package engine

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the registry over HTTP. It carries no domain logic of its
// own: it binds the raw field map, dispatches to the resolved calculator, and
// serializes the structured outcome.
type Handler struct {
	reg *Registry
}

func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/calculators", h.ListCalculators)
	api.GET("/calculators/:id/references", h.GetReferences)
	api.POST("/calculators/:id/validate", h.Validate)
	api.POST("/calculators/:id/calculate", h.Calculate)
}

// calculateResponse is the wire shape of a successful calculation.
type calculateResponse struct {
	CalculatorID   string      `json:"calculator_id"`
	Inputs         FieldValues `json:"inputs"`
	Results        FieldValues `json:"results"`
	Interpretation string      `json:"interpretation"`
}

func (h *Handler) ListCalculators(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"calculators": h.reg.IDs(),
	})
}

func (h *Handler) GetReferences(c echo.Context) error {
	calc, err := h.reg.Resolve(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "calculator not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"calculator_id": calc.ID(),
		"references":    calc.References(),
	})
}

func (h *Handler) Validate(c echo.Context) error {
	calc, err := h.reg.Resolve(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "calculator not found")
	}
	var in FieldValues
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, calc.Validate(in))
}

func (h *Handler) Calculate(c echo.Context) error {
	calc, err := h.reg.Resolve(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "calculator not found")
	}
	var in FieldValues
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if vr := calc.Validate(in); !vr.Valid {
		return c.JSON(http.StatusUnprocessableEntity, vr)
	}

	res, err := calc.Calculate(in)
	if err != nil {
		// Validation passed, so this is the defensive computation-time path
		// (e.g. an unsupported selector slipping through).
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, calculateResponse{
		CalculatorID:   res.CalculatorID,
		Inputs:         res.Inputs,
		Results:        res.Results,
		Interpretation: calc.Interpret(res),
	})
}
