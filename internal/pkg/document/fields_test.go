//go:build unit

package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestExtractFields(t *testing.T) {
	extractRequest := func(text string, want dto.DocumentFields) func(t *testing.T) {
		return func(t *testing.T) {
			got := ExtractFields(text)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("labelled fields", extractRequest(
		"Company Name: Globex Travel\nIndustry: Consulting\nEmployees: 1,250\nAnnual travel budget: $250,000",
		dto.DocumentFields{
			CompanyName:   strPtr("Globex Travel"),
			Budget:        floatPtr(250000),
			Industry:      strPtr("Consulting"),
			EmployeeCount: intPtr(1250),
		}))

	t.Run("free text with suffix and multiplier", extractRequest(
		"Initech Corp is a software firm with 300 employees and a budget of 40k for Q3 offsites.",
		dto.DocumentFields{
			CompanyName:   strPtr("Initech Corp"),
			Budget:        floatPtr(40000),
			Industry:      strPtr("software"),
			EmployeeCount: intPtr(300),
		}))

	t.Run("nothing found", extractRequest("see you tomorrow", dto.DocumentFields{}))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", DetectLanguage("hola"))
	assert.Equal(t, "en", DetectLanguage("The quarterly travel report shows that most employees flew economy class to the annual conference in London."))
	assert.Equal(t, "es", DetectLanguage("El informe trimestral de viajes muestra que la mayoría de los empleados volaron en clase económica a la conferencia anual."))
}
