package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

// UnknownUpdateError is shown when the backend refused without a reason.
const UnknownUpdateError = "Erreur inconnue"

// EditorForm is the editor content for one contact: values keyed by wire
// key, with Email split into primary and secondary.
type EditorForm struct {
	ID     int64
	Values map[string]string
}

// Value is a template helper.
func (f EditorForm) Value(key string) string {
	return f.Values[key]
}

// ContactEditor saves one contact at a time. onUpdate runs after a save the
// backend accepted.
type ContactEditor struct {
	contacts ContactGateway
	onUpdate func(ctx context.Context, token string) error
}

func NewContactEditor(contacts ContactGateway, onUpdate func(ctx context.Context, token string) error) *ContactEditor {
	return &ContactEditor{contacts: contacts, onUpdate: onUpdate}
}

// Open builds the form of a contact.
func (e *ContactEditor) Open(c entity.Contact) EditorForm {
	values := make(map[string]string, len(entity.EditableFields))
	for _, f := range entity.EditableFields {
		values[f.Key] = c.Get(f.Key)
	}
	values[entity.KeyEmail], values[entity.KeySecondaryEmail] = entity.SplitEmails(c.Email)
	return EditorForm{ID: c.ID, Values: values}
}

// Merge applies form values onto a copy of base. Email is recombined and
// the secondary key does not reach the record.
func Merge(base entity.Contact, values map[string]string) entity.Contact {
	out := base.Clone()
	for key, v := range values {
		if key == entity.KeyEmail || key == entity.KeySecondaryEmail {
			continue
		}
		out.Set(key, v)
	}
	_, hasPrimary := values[entity.KeyEmail]
	_, hasSecondary := values[entity.KeySecondaryEmail]
	if hasPrimary || hasSecondary {
		out.Email = entity.JoinEmails(values[entity.KeyEmail], values[entity.KeySecondaryEmail])
	}
	return out
}

// Submit validates the form and sends the merged record. On any failure
// nothing is applied locally and the caller keeps the form as typed.
func (e *ContactEditor) Submit(ctx context.Context, token string, base entity.Contact, values map[string]string) error {
	if errs := ValidateContactValues(values); len(errs) > 0 {
		return &DomainError{Code: "update_rejected", Message: joinValidation(errs)}
	}

	merged := Merge(base, values)
	if err := e.contacts.UpdateContact(ctx, token, merged); err != nil {
		var apiErr *crm.APIError
		switch {
		case errors.As(err, &apiErr):
			msg := strings.TrimSpace(apiErr.Detail)
			if msg == "" {
				msg = UnknownUpdateError
			}
			return &DomainError{Code: "update_rejected", Message: msg}
		case errors.Is(err, crm.ErrUnauthorized):
			return ErrNotAuthenticated
		default:
			logger.LogError(err, "contact update failed")
			return &TechnicalError{Code: "update_network", Message: "contact update failed", Err: err}
		}
	}

	if e.onUpdate != nil {
		if err := e.onUpdate(ctx, token); err != nil {
			logger.LogError(err, "list refresh after update failed")
		}
	}
	return nil
}
