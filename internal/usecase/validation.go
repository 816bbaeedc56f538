package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/plouf-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateContactValues checks editor values before they are sent. Empty
// values are allowed everywhere.
func ValidateContactValues(values map[string]string) []ValidationError {
	var errs []ValidationError

	for _, key := range []string{entity.KeyLastContactDate, entity.KeyFollowUpDate} {
		if v := strings.TrimSpace(values[key]); v != "" && !isValidDate(v) {
			errs = append(errs, ValidationError{key, "must be a valid date (YYYY-MM-DD)"})
		}
	}

	for _, key := range []string{entity.KeyEmail, entity.KeySecondaryEmail} {
		for _, addr := range strings.Split(values[key], ",") {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			if !isValidEmail(addr) {
				errs = append(errs, ValidationError{key, fmt.Sprintf("%q is not a valid address", addr)})
			}
		}
	}

	return errs
}

func isValidDate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

func isValidEmail(v string) bool {
	a, err := mail.ParseAddress(v)
	return err == nil && a.Address == v
}

func joinValidation(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
