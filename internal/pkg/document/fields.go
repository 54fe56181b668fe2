// Package document pulls structured business fields and the language out of free text.
package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
)

// minLanguageSample is the shortest text worth running language detection on.
const minLanguageSample = 20

var (
	companyLabel  = regexp.MustCompile(`(?im)^\s*(?:company(?:\s+name)?|organi[sz]ation|client|vendor|business name)\s*[:\-]\s*(.+?)\s*$`)
	companySuffix = regexp.MustCompile(`\b((?:[A-Z][\w&'.-]*\s+){0,4}(?:Inc|LLC|Ltd|Corp|Corporation|GmbH|PLC|Pty|Co)\b\.?)`)
	budgetAmount  = regexp.MustCompile(`(?i)\bbudget\b[^\d\n]{0,30}?(\d[\d,]*(?:\.\d+)?)\s*(k|m|thousand|million)?\b`)
	industryLabel = regexp.MustCompile(`(?im)^\s*(?:industry|sector)\s*[:\-]\s*(.+?)\s*$`)
	industryWord  = regexp.MustCompile(`(?i)\b(technology|software|finance|financial services|banking|insurance|healthcare|pharmaceutical|consulting|manufacturing|retail|e-commerce|education|hospitality|logistics|energy|real estate|media|telecommunications|government|non-profit)\b`)
	employeeCount = regexp.MustCompile(`(?i)\b(\d[\d,]*)\s*\+?\s*(?:employees|staff|people|team members|full-time staff)\b`)
	employeeLabel = regexp.MustCompile(`(?im)^\s*(?:employees|headcount|employee count|staff)\s*[:\-]\s*(\d[\d,]*)`)
)

// ExtractFields applies label and keyword heuristics. Fields that are not found stay nil.
func ExtractFields(text string) dto.DocumentFields {
	var fields dto.DocumentFields

	if m := companyLabel.FindStringSubmatch(text); m != nil {
		fields.CompanyName = ptr(m[1])
	} else if m := companySuffix.FindStringSubmatch(text); m != nil {
		fields.CompanyName = ptr(strings.TrimSpace(m[1]))
	}

	if m := budgetAmount.FindStringSubmatch(text); m != nil {
		if amount, ok := parseAmount(m[1], m[2]); ok {
			fields.Budget = &amount
		}
	}

	if m := industryLabel.FindStringSubmatch(text); m != nil {
		fields.Industry = ptr(m[1])
	} else if m := industryWord.FindStringSubmatch(text); m != nil {
		fields.Industry = ptr(strings.ToLower(m[1]))
	}

	for _, re := range []*regexp.Regexp{employeeLabel, employeeCount} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				fields.EmployeeCount = &n

				break
			}
		}
	}

	return fields
}

func parseAmount(number, multiplier string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(multiplier) {
	case "k", "thousand":
		amount *= 1_000
	case "m", "million":
		amount *= 1_000_000
	}

	return amount, true
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when the text is too short
// or the detection is not reliable.
func DetectLanguage(text string) string {
	if len(strings.TrimSpace(text)) < minLanguageSample {
		return ""
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}

	return info.Lang.Iso6391()
}

func ptr(s string) *string {
	return &s
}
