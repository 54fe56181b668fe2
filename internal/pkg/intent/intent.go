// Package intent routes chat messages to a tool by matching an ordered list of
// patterns. The first matching rule wins.
package intent

import (
	"regexp"
)

type Intent string

const (
	FlightSearch       Intent = "flight_search"
	CodeGeneration     Intent = "code_generation"
	DocumentProcessing Intent = "document_processing"
	ExpenseAnalysis    Intent = "expense_analysis"
	General            Intent = "general"
)

// Tool returns the tool endpoint name serving the intent, empty for General.
func (i Intent) Tool() string {
	switch i {
	case FlightSearch:
		return "flight-search"
	case CodeGeneration:
		return "code-generation"
	case DocumentProcessing:
		return "document-processing"
	case ExpenseAnalysis:
		return "expense-analysis"
	default:
		return ""
	}
}

type Rule struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

// routePattern matches upper-case IATA pairs such as "MAD to NYC" or "JFK-LHR".
var routePattern = regexp.MustCompile(`\b[A-Z]{3}\s*(?:to|-|→|>)\s*[A-Z]{3}\b`)

// DefaultRules lists flight patterns first.
var DefaultRules = []Rule{
	{Intent: FlightSearch, Pattern: routePattern},
	{Intent: FlightSearch, Pattern: regexp.MustCompile(`(?i)\b(flights?|fly|flying|airfares?|plane tickets?|book(ing)? a (flight|trip))\b`)},
	{Intent: CodeGeneration, Pattern: regexp.MustCompile(`(?i)\b(code|function|script|program|implement|typescript|javascript|python|golang|sql query|snippet)\b`)},
	{Intent: DocumentProcessing, Pattern: regexp.MustCompile(`(?i)\b(documents?|pdf|invoices?|receipts?|contracts?|extract|ocr|scan(ned)?)\b`)},
	{Intent: ExpenseAnalysis, Pattern: regexp.MustCompile(`(?i)\b(expenses?|spending|spent|expenditure|reimburse(ment)?s?|cost report)\b`)},
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}

	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(message string) Intent {
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(message) {
			return rule.Intent
		}
	}

	return General
}
