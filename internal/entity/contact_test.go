package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinEmailsRoundTrip(t *testing.T) {
	cases := []string{
		"a@x.fr",
		"a@x.fr, b@x.fr",
		"a@x.fr,b@x.fr,c@x.fr",
		"  a@x.fr ,   b@x.fr  ",
		"",
	}

	for _, list := range cases {
		primary, secondary := SplitEmails(list)
		joined := JoinEmails(primary, secondary)

		assert.Equal(t, normalizeList(list), normalizeList(joined), "list %q", list)
		assert.False(t, strings.HasSuffix(joined, ", "), "trailing separator for %q", list)
	}
}

func TestSplitEmails(t *testing.T) {
	primary, secondary := SplitEmails("jean@plouf.fr, compta@plouf.fr, rh@plouf.fr")
	assert.Equal(t, "jean@plouf.fr", primary)
	assert.Equal(t, "compta@plouf.fr, rh@plouf.fr", secondary)

	primary, secondary = SplitEmails("seul@plouf.fr")
	assert.Equal(t, "seul@plouf.fr", primary)
	assert.Empty(t, secondary)
}

func TestJoinEmailsEmptySecondary(t *testing.T) {
	assert.Equal(t, "jean@plouf.fr", JoinEmails("jean@plouf.fr", ""))
	assert.Equal(t, "b@plouf.fr", JoinEmails("", "b@plouf.fr"))
	assert.Equal(t, "", JoinEmails(" ", " "))
}

func TestFormatDateSentinels(t *testing.T) {
	for _, v := range []string{"NaT", "None", "", "null", "undefined"} {
		assert.Equal(t, "-", FormatDate(v), "value %q", v)
		assert.Equal(t, "", EditableDate(v), "value %q", v)
	}
}

func TestFormatDateDropsTime(t *testing.T) {
	assert.Equal(t, "2024-03-01", FormatDate("2024-03-01T10:30:00"))
	assert.Equal(t, "2024-03-01", FormatDate("2024-03-01 00:00:00"))
	assert.Equal(t, "2024-03-01", EditableDate("2024-03-01"))
}

func TestContactUnmarshalKeepsUnknownKeys(t *testing.T) {
	payload := `{
		"id": 42,
		"First Name": "Jean",
		"Last Name": "Dupont",
		"Email": "jean@plouf.fr, j.dupont@plouf.fr",
		"Phone": 33612345678,
		"# Employees": 12,
		"Statut": null,
		"date_relance": "NaT",
		"score": 0.7
	}`

	var c Contact
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	assert.Equal(t, int64(42), c.ID)
	assert.Equal(t, "Jean Dupont", c.FullName())
	assert.Equal(t, "33612345678", c.Phone)
	assert.Equal(t, "12", c.Employees)
	assert.Equal(t, "", c.Status)
	assert.Equal(t, "jean@plouf.fr", c.PrimaryEmail())
	require.Contains(t, c.Extra, "score")

	out, err := json.Marshal(c)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, 0.7, back["score"])
	assert.Equal(t, "Jean", back["First Name"])
	assert.Equal(t, "NaT", back["date_relance"])
	assert.Nil(t, back["date_dernier_contact"])
}

func TestContactNormalizedForEdit(t *testing.T) {
	c := Contact{ID: 1, FollowUpDate: "2024-05-02T00:00:00", LastContactDate: "NaT"}

	n := c.NormalizedForEdit()

	assert.Equal(t, "2024-05-02", n.FollowUpDate)
	assert.Equal(t, "", n.LastContactDate)
	assert.Equal(t, "NaT", c.LastContactDate, "original must not change")
}

func TestContactSetGet(t *testing.T) {
	var c Contact
	assert.True(t, c.Set(KeyCompany, "Plouf SAS"))
	assert.Equal(t, "Plouf SAS", c.Get(KeyCompany))
	assert.False(t, c.Set(KeySecondaryEmail, "x@y.z"))
	assert.False(t, c.Set(KeyID, "9"))
	assert.Equal(t, "", c.Get("unknown"))
}

func TestStatusTone(t *testing.T) {
	cases := map[string]Tone{
		"Client":               ToneSuccess,
		"Ancien client perdu":  ToneSuccess,
		"Lead chaud":           ToneWarning,
		"RDV pris":             ToneWarning,
		"A contacter":          ToneInfo,
		"Pas intéressé":        ToneError,
		"PAS INTÉRESSÉ":        ToneError,
		"Perdu":                ToneError,
		"Ne pas relancer":      ToneError,
		"Contacté":             ToneNeutral,
		"":                     ToneNeutral,
		"something unexpected": ToneNeutral,
	}
	for status, want := range cases {
		assert.Equal(t, want, StatusTone(status), "status %q", status)
	}
	assert.Equal(t, StatusUndefined, StatusLabel("  "))
}

func normalizeList(list string) string {
	parts := []string{}
	for _, x := range strings.Split(list, ",") {
		if x = strings.TrimSpace(x); x != "" {
			parts = append(parts, x)
		}
	}
	return strings.Join(parts, ",")
}
