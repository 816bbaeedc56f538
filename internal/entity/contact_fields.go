package entity

import "strings"

// Review outcome vocabulary understood by the backend.
const (
	StatusContacted     = "Contacté"
	StatusNotInterested = "Pas intéressé"
	StatusUndefined     = "Non défini"
)

// EmptyDate is what the console shows for a missing date.
const EmptyDate = "-"

// SplitEmails splits a comma separated address list into the primary
// address and the remaining addresses joined with ", ".
func SplitEmails(list string) (primary, secondary string) {
	var parts []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], ", ")
}

// JoinEmails is the inverse of SplitEmails. Empty parts are dropped so an
// empty secondary list leaves no trailing separator.
func JoinEmails(primary, secondary string) string {
	var parts []string
	for _, p := range []string{primary, secondary} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsDateSentinel reports whether a backend date value means "no date".
func IsDateSentinel(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NaT", "None", "null", "undefined":
		return true
	}
	return false
}

// datePart drops the time of day from a date or timestamp string.
func datePart(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, "T "); i >= 0 {
		return v[:i]
	}
	return v
}

// FormatDate renders a backend date for display.
func FormatDate(v string) string {
	if IsDateSentinel(v) {
		return EmptyDate
	}
	return datePart(v)
}

// EditableDate renders a backend date for a date input.
func EditableDate(v string) string {
	if IsDateSentinel(v) {
		return ""
	}
	return datePart(v)
}

// InputKind tells the templates which form control renders a field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputEmail    InputKind = "email"
	InputTel      InputKind = "tel"
	InputURL      InputKind = "url"
	InputDate     InputKind = "date"
	InputTextarea InputKind = "textarea"
)

// Field describes one editable contact field. Label is an i18n code.
type Field struct {
	Key   string
	Label string
	Kind  InputKind
}

// EditableFields is the ordered field list of the contact editor.
var EditableFields = []Field{
	{KeyFirstName, "field_first_name", InputText},
	{KeyLastName, "field_last_name", InputText},
	{KeyEmail, "field_email", InputEmail},
	{KeySecondaryEmail, "field_secondary_email", InputText},
	{KeyPhone, "field_phone", InputTel},
	{KeyCompany, "field_company", InputText},
	{KeyTitle, "field_title", InputText},
	{KeyWebsite, "field_website", InputText},
	{KeyLinkedin, "field_linkedin", InputText},
	{KeyAddress, "field_address", InputText},
	{KeyEmployees, "field_employees", InputText},
	{KeyIndustry, "field_industry", InputText},
	{KeyCommercial, "field_commercial", InputText},
	{KeyStatus, "field_status", InputText},
	{KeyOrigin, "field_origin", InputText},
	{KeyLastContactDate, "field_last_contact", InputDate},
	{KeyFollowUpDate, "field_follow_up", InputDate},
	{KeyComment, "field_comment", InputTextarea},
}

// ReviewFields is the field list of the prospect review card.
var ReviewFields = []Field{
	{KeyFirstName, "field_first_name", InputText},
	{KeyLastName, "field_last_name", InputText},
	{KeyTitle, "field_title", InputText},
	{KeyCompany, "field_company", InputText},
	{KeyEmail, "field_email", InputEmail},
	{KeyPhone, "field_phone", InputTel},
	{KeyWebsite, "field_website", InputText},
	{KeyLinkedin, "field_linkedin", InputText},
	{KeyAddress, "field_address", InputText},
	{KeyEmployees, "field_employees", InputText},
	{KeyComment, "field_comment", InputTextarea},
}
