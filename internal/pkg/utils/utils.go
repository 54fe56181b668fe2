package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ConvertMinutesToDuration convert minutes to duration format string
// Example: 125 -> "2h 5m"
func ConvertMinutesToDuration(durationInMinutes int64) string {
	h := durationInMinutes / 60
	m := durationInMinutes % 60

	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}

	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}

	return fmt.Sprintf("%dh %dm", h, m)
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODurationMinutes converts an ISO 8601 duration as sent by the flight vendor
// to whole minutes.
// Example: "PT2H30M" -> 150, "P1DT1H" -> 1500
func ParseISODurationMinutes(duration string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(duration))

	match := isoDurationPattern.FindStringSubmatch(normalized)
	if match == nil || normalized == "P" || normalized == "PT" {
		return 0, fmt.Errorf("invalid iso duration %q", duration)
	}

	parts := make([]int, 4)
	for i := 1; i < len(match); i++ {
		if match[i] == "" {
			continue
		}

		v, err := strconv.Atoi(match[i])
		if err != nil {
			return 0, fmt.Errorf("invalid iso duration %q: %w", duration, err)
		}
		parts[i-1] = v
	}

	return parts[0]*24*60 + parts[1]*60 + parts[2] + parts[3]/60, nil
}

// ParseAmount parses a decimal amount string (e.g. "123.45"). Empty input is zero.
func ParseAmount(amount string) (float64, error) {
	if strings.TrimSpace(amount) == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return v, nil
}

// FormatAmount formats a money amount with thousands separators and two decimals.
// Example: (1234.5, "EUR") -> "EUR 1,234.50"
func FormatAmount(amount float64, currency string) string {
	negative := amount < 0
	amount = math.Abs(math.Round(amount*100) / 100)

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	var result []byte
	str := strconv.FormatInt(whole, 10)

	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{','}, result...)
		}
	}

	formatted := fmt.Sprintf("%s.%02d", result, cents)
	if negative {
		formatted = "-" + formatted
	}

	if currency == "" {
		return formatted
	}

	return currency + " " + formatted
}
