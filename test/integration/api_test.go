package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicalc/clinicalc/internal/domain/dosing"
	"github.com/clinicalc/clinicalc/internal/domain/fluids"
	"github.com/clinicalc/clinicalc/internal/domain/scores"
	"github.com/clinicalc/clinicalc/internal/domain/vitals"
	"github.com/clinicalc/clinicalc/internal/engine"
)

// newTestServer stands up the full API surface with every calculator
// registered, the way the server binary wires it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := engine.NewRegistry()
	reg.MustRegister(dosing.NewMedicationDosage())
	reg.MustRegister(dosing.NewHeparinDosage())
	reg.MustRegister(dosing.NewUnitConverter())
	reg.MustRegister(dosing.NewPediatricDosage())
	reg.MustRegister(fluids.NewDripRate())
	reg.MustRegister(fluids.NewFluidBalance())
	reg.MustRegister(fluids.NewElectrolyteManagement())
	reg.MustRegister(vitals.NewBMI())
	reg.MustRegister(vitals.NewMeanArterialPressure())
	reg.MustRegister(vitals.NewMinuteVentilation())
	reg.MustRegister(scores.NewBraden())
	reg.MustRegister(scores.NewGlasgow())
	reg.MustRegister(scores.NewApgar())

	e := echo.New()
	engine.NewHandler(reg).RegisterRoutes(e.Group("/api/v1"))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, echo.MIMEApplicationJSON, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp, decoded
}

func TestAPI_ListCalculators(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/calculators")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Calculators []string `json:"calculators"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Calculators) != 13 {
		t.Errorf("expected 13 calculators, got %d: %v", len(body.Calculators), body.Calculators)
	}
}

func TestAPI_CalculateBMI(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/v1/calculators/bmi/calculate",
		`{"weight":"70","height":"170"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}

	results, ok := body["results"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing results in %v", body)
	}
	if results["bmi"] != "24.2" {
		t.Errorf("expected bmi 24.2, got %v", results["bmi"])
	}
	if results["category"] != "Peso normal" {
		t.Errorf("expected Peso normal, got %v", results["category"])
	}
	interp, _ := body["interpretation"].(string)
	if !strings.Contains(interp, "IMC") {
		t.Errorf("expected narrative interpretation, got %q", interp)
	}
}

func TestAPI_ValidationErrorsAreCollected(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/v1/calculators/bmi/calculate", `{}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %v", resp.StatusCode, body)
	}
	if body["valid"] != false {
		t.Errorf("expected valid=false, got %v", body["valid"])
	}
	errs, ok := body["errors"].([]interface{})
	if !ok || len(errs) != 2 {
		t.Errorf("expected both field errors reported, got %v", body["errors"])
	}
}

func TestAPI_ValidateEndpointDoesNotCalculate(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/v1/calculators/heparin_dosage/validate",
		`{"treatment_type":"Terapéutico","weight":"66","dosing_schedule":"1 mg/kg cada 12h","renal_insufficiency":"false","high_bleeding_risk":"false"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["valid"] != true {
		t.Errorf("expected valid input, got %v", body)
	}
	if _, ok := body["results"]; ok {
		t.Error("validate must not return calculation results")
	}
}

func TestAPI_UnknownCalculator(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/v1/calculators/unknown/calculate", `{}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPI_References(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/calculators/glasgow_coma_scale/references")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		CalculatorID string             `json:"calculator_id"`
		References   []engine.Reference `json:"references"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.CalculatorID != "glasgow_coma_scale" {
		t.Errorf("unexpected calculator_id %q", body.CalculatorID)
	}
	if len(body.References) == 0 {
		t.Error("expected references")
	}
}

func TestAPI_ConcurrentCalculations(t *testing.T) {
	srv := newTestServer(t)

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			resp, err := http.Post(srv.URL+"/api/v1/calculators/mean_arterial_pressure/calculate",
				echo.MIMEApplicationJSON, strings.NewReader(`{"systolic":"120","diastolic":"80"}`))
			if err != nil {
				done <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				done <- err
			}
			done <- nil
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent request failed: %v", err)
		}
	}
}
