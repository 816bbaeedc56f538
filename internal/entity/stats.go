package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Count is one group of a grouped count.
type Count struct {
	Key   string
	Value int
}

// Counts is a grouped count that keeps the key order of the JSON object it
// was decoded from. Ties in rankings are broken by that order.
type Counts []Count

func (c *Counts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grouped count: expected object, got %v", tok)
	}

	out := Counts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("grouped count %q: %w", key, err)
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("grouped count %q: %w", key, err)
		}
		out = append(out, Count{Key: key, Value: int(f)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", item.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Keys lists the group keys in order, skipping the given sentinel keys.
func (c Counts) Keys(skip ...string) []string {
	keys := make([]string, 0, len(c))
outer:
	for _, item := range c {
		for _, s := range skip {
			if item.Key == s {
				continue outer
			}
		}
		keys = append(keys, item.Key)
	}
	return keys
}

// Total sums all groups.
func (c Counts) Total() int {
	total := 0
	for _, item := range c {
		total += item.Value
	}
	return total
}

// Top returns the n largest groups in descending order. Equal values keep
// their original order.
func (c Counts) Top(n int) Counts {
	sorted := make(Counts, len(c))
	copy(sorted, c)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Stats is the payload of /crm/stats.
type Stats struct {
	ByOrigin     Counts `json:"byOrigine"`
	ByCommercial Counts `json:"byCommercial"`
	ByIndustry   Counts `json:"byIndustry"`
	ByStatus     Counts `json:"byStatus"`
	Total        int    `json:"total"`
}

// HomeMetrics is the payload of /crm/home_metrics.
type HomeMetrics struct {
	TotalContacts int `json:"totalContacts"`
	ToContact     int `json:"toContact"`
	RelancesDue   int `json:"relancesDue"`
	UpcomingRdv   int `json:"upcomingRdv"`
}
