//go:build unit

package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestConvertMinutesToDuration(t *testing.T) {
	durationRequest := func(minutes int64, want string) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, ConvertMinutesToDuration(minutes))
		}
	}

	t.Run("hours_and_minutes", durationRequest(125, "2h 5m"))
	t.Run("hours_only", durationRequest(120, "2h"))
	t.Run("minutes_only", durationRequest(45, "45m"))
}

func TestParseISODurationMinutes(t *testing.T) {
	parseRequest := func(in string, want int, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			got, err := ParseISODurationMinutes(in)
			if (err != nil) != wantErr {
				t.Fatalf("ParseISODurationMinutes(%q) error = %v, wantErr %v", in, err, wantErr)
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("ParseISODurationMinutes(%q) mismatch (-want +got):\n%s", in, diff)
			}
		}
	}

	t.Run("hours_minutes", parseRequest("PT2H30M", 150, false))
	t.Run("days", parseRequest("P1DT1H", 1500, false))
	t.Run("minutes_only", parseRequest("PT45M", 45, false))
	t.Run("lowercase", parseRequest("pt1h", 60, false))
	t.Run("empty", parseRequest("", 0, true))
	t.Run("garbage", parseRequest("2 hours", 0, true))
	t.Run("bare_designator", parseRequest("PT", 0, true))
}

func TestFormatAmount(t *testing.T) {
	formatRequest := func(amount float64, currency, want string) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, FormatAmount(amount, currency))
		}
	}

	t.Run("thousands", formatRequest(1234.5, "EUR", "EUR 1,234.50"))
	t.Run("millions", formatRequest(1234567, "USD", "USD 1,234,567.00"))
	t.Run("small", formatRequest(9.99, "GBP", "GBP 9.99"))
	t.Run("zero", formatRequest(0, "EUR", "EUR 0.00"))
	t.Run("negative", formatRequest(-50.1, "EUR", "EUR -50.10"))
	t.Run("no_currency", formatRequest(10, "", "10.00"))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("245.10")
	assert.NoError(t, err)
	assert.Equal(t, 245.10, got)

	got, err = ParseAmount("")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
