package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/plouf-crm/internal/entity"
)

func TestValidateContactValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		fields []string
	}{
		{"empty form", map[string]string{}, nil},
		{"valid dates", map[string]string{entity.KeyFollowUpDate: "2024-05-02", entity.KeyLastContactDate: ""}, nil},
		{"bad date", map[string]string{entity.KeyLastContactDate: "2024-13-40"}, []string{entity.KeyLastContactDate}},
		{"valid emails", map[string]string{entity.KeyEmail: "a@b.fr", entity.KeySecondaryEmail: "c@d.fr, e@f.fr"}, nil},
		{"bad secondary", map[string]string{entity.KeySecondaryEmail: "c@d.fr, nope"}, []string{entity.KeySecondaryEmail}},
		{"display name is not an address", map[string]string{entity.KeyEmail: "Ana <a@b.fr>"}, []string{entity.KeyEmail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateContactValues(tt.values)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}
