package invoice

import (
	"fmt"
	"strings"
	"time"
)

// FieldError is a single validation violation, tagged with the name of the
// offending field. Line fields are addressed as "lines[i].field".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found while constructing an
// invoice. Callers always receive the full list, never only the first
// failure, so a form UI can highlight all invalid fields at once.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) addLine(index int, field, message string) {
	e.add(fmt.Sprintf("lines[%d].%s", index, field), message)
}

// errOrNil collapses an empty violation list into success.
func (e *ValidationError) errOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// dateLayout is the ISO form fields use; CII output uses format 102 instead.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// ValidSIRET reports whether s is exactly 14 ASCII digits, the French
// establishment identifier format.
func ValidSIRET(s string) bool {
	return allDigits(s, 14)
}

// ValidSIREN reports whether s is exactly 9 ASCII digits, the French
// business identifier format.
func ValidSIREN(s string) bool {
	return allDigits(s, 9)
}

func allDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidCountryCode reports whether s is a 2-letter uppercase ISO 3166-1
// alpha-2 code.
func ValidCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// ValidVATNumber reports whether s looks like an intra-community VAT
// identifier: a 2-letter uppercase country prefix followed by 2 to 13
// alphanumeric characters.
func ValidVATNumber(s string) bool {
	if len(s) < 4 || len(s) > 15 {
		return false
	}
	for i, c := range s {
		if i < 2 {
			if c < 'A' || c > 'Z' {
				return false
			}
			continue
		}
		if !isAlphanumeric(c) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
