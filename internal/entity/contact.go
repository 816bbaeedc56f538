package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Wire keys used by the CRM backend.
const (
	KeyID                 = "id"
	KeyFirstName          = "First Name"
	KeyLastName           = "Last Name"
	KeyCompany            = "Company Name for Emails"
	KeyEmail              = "Email"
	KeySecondaryEmail     = "Email Secondaire"
	KeyPhone              = "Phone"
	KeyStatus             = "Statut"
	KeyCommercial         = "Commercial"
	KeyTitle              = "Title"
	KeyWebsite            = "Website"
	KeyLinkedin           = "Person Linkedin Url"
	KeyAddress            = "Company Address"
	KeyEmployees          = "# Employees"
	KeyIndustry           = "Industry"
	KeyComment            = "Commentaire"
	KeyOrigin             = "origine_contact"
	KeyFollowUpDate       = "date_relance"
	KeyLastContactDate    = "date_dernier_contact"
	KeyGeneratedSubject   = "generated_email_subject"
	KeyGeneratedEmailBody = "generated_email_body"
)

// Contact is the client-side copy of a backend contact record.
// Keys the console does not know about are kept in Extra so a full-record
// update sends them back untouched.
type Contact struct {
	ID               int64
	FirstName        string
	LastName         string
	Company          string
	Email            string
	Phone            string
	Status           string
	Commercial       string
	Title            string
	Website          string
	LinkedinURL      string
	Address          string
	Employees        string
	Industry         string
	Comment          string
	Origin           string
	FollowUpDate     string
	LastContactDate  string
	GeneratedSubject string
	GeneratedBody    string

	Extra map[string]json.RawMessage
}

// textFields maps every free-text wire key to its field.
func (c *Contact) textFields() map[string]*string {
	return map[string]*string{
		KeyFirstName:          &c.FirstName,
		KeyLastName:           &c.LastName,
		KeyCompany:            &c.Company,
		KeyEmail:              &c.Email,
		KeyPhone:              &c.Phone,
		KeyStatus:             &c.Status,
		KeyCommercial:         &c.Commercial,
		KeyTitle:              &c.Title,
		KeyWebsite:            &c.Website,
		KeyLinkedin:           &c.LinkedinURL,
		KeyAddress:            &c.Address,
		KeyEmployees:          &c.Employees,
		KeyIndustry:           &c.Industry,
		KeyComment:            &c.Comment,
		KeyOrigin:             &c.Origin,
		KeyFollowUpDate:       &c.FollowUpDate,
		KeyLastContactDate:    &c.LastContactDate,
		KeyGeneratedSubject:   &c.GeneratedSubject,
		KeyGeneratedEmailBody: &c.GeneratedBody,
	}
}

func isDateKey(key string) bool {
	return key == KeyFollowUpDate || key == KeyLastContactDate
}

// Get returns the value stored under a wire key. Unknown keys read as "".
func (c *Contact) Get(key string) string {
	if key == KeyID {
		return strconv.FormatInt(c.ID, 10)
	}
	if p, ok := c.textFields()[key]; ok {
		return *p
	}
	return ""
}

// Set writes a free-text value. It reports false for keys that are not
// editable text fields (id, synthetic keys, unknown keys).
func (c *Contact) Set(key, value string) bool {
	p, ok := c.textFields()[key]
	if !ok {
		return false
	}
	*p = value
	return true
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// PrimaryEmail is the first address of the Email list.
func (c Contact) PrimaryEmail() string {
	primary, _ := SplitEmails(c.Email)
	return primary
}

// Clone returns a deep copy.
func (c Contact) Clone() Contact {
	out := c
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// NormalizedForEdit returns a copy whose date fields are plain dates and
// whose sentinel dates are cleared.
func (c Contact) NormalizedForEdit() Contact {
	out := c.Clone()
	out.FollowUpDate = EditableDate(out.FollowUpDate)
	out.LastContactDate = EditableDate(out.LastContactDate)
	return out
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Contact{}
	fields := c.textFields()
	for key, value := range raw {
		if key == KeyID {
			id, err := rawToInt(value)
			if err != nil {
				return fmt.Errorf("contact id: %w", err)
			}
			c.ID = id
			continue
		}
		if p, ok := fields[key]; ok {
			s, err := rawToString(value)
			if err != nil {
				return fmt.Errorf("contact field %q: %w", key, err)
			}
			*p = s
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage)
		}
		c.Extra[key] = value
	}
	return nil
}

func (c Contact) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+20)
	for k, v := range c.Extra {
		out[k] = v
	}
	out[KeyID] = c.ID
	for key, p := range c.textFields() {
		if isDateKey(key) && *p == "" {
			out[key] = nil
			continue
		}
		out[key] = *p
	}
	return json.Marshal(out)
}

// rawToString accepts strings, numbers, booleans and null. The backend is a
// spreadsheet import and column types are not stable.
func rawToString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10), nil
		}
		return n.String(), nil
	}
}

func rawToInt(raw json.RawMessage) (int64, error) {
	s, err := rawToString(raw)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
