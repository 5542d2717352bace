// Package doctors holds the provider directory the ProviderAgent searches.
// The directory is loaded once and is read-only afterwards, so a single
// Directory value can serve concurrent lookups without locking.
package doctors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ErrNoFilter is the message carried by the error record FindDoctors
// returns when neither a state nor a city is supplied.
const ErrNoFilter = "Please provide a state or a city."

// Doctor is one provider record.
type Doctor struct {
	Name      string  `json:"name,omitempty" jsonschema:"full name of the provider"`
	Specialty string  `json:"specialty,omitempty" jsonschema:"medical specialty"`
	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
	Address   Address `json:"address"`
	// Error is only set on the record returned for an unfiltered query.
	Error string `json:"error,omitempty"`
}

// Address is where a provider practices.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip,omitempty"`
}

// The directory lookup is exposed to models under one name, whether it runs
// in process or behind the MCP server.
const (
	ToolName        = "list_doctors"
	ToolDescription = "List doctors in the directory filtered by US state and/or city. " +
		"At least one filter is required; matching is case-insensitive and exact."
)

// Query is the input of a directory lookup. Empty fields are ignored.
type Query struct {
	State string `json:"state,omitempty" jsonschema:"US state, for example TX"`
	City  string `json:"city,omitempty" jsonschema:"city name, for example Austin"`
}

// Directory is an immutable in-memory collection of doctors.
type Directory struct {
	doctors []Doctor
}

// NewDirectory copies records into a new Directory.
func NewDirectory(records []Doctor) *Directory {
	d := &Directory{doctors: make([]Doctor, len(records))}
	copy(d.doctors, records)
	return d
}

// Parse decodes a JSON array of doctor records.
func Parse(data []byte) (*Directory, error) {
	var records []Doctor
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("doctors: decode: %w", err)
	}
	return &Directory{doctors: records}, nil
}

// Load reads and parses the JSON file at path.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("doctors: read %s: %w", path, err)
	}
	return Parse(data)
}

// Len reports how many records the directory holds.
func (d *Directory) Len() int {
	return len(d.doctors)
}

// FindDoctors returns the doctors practicing in the given state and/or city.
// Matching is case-insensitive exact equality after trimming, and every
// non-empty filter must match. With both filters empty FindDoctors returns a
// single error record instead of the whole directory.
func (d *Directory) FindDoctors(state, city string) []Doctor {
	state = strings.TrimSpace(state)
	city = strings.TrimSpace(city)
	if state == "" && city == "" {
		return []Doctor{{Error: ErrNoFilter}}
	}

	matches := []Doctor{}
	for _, doc := range d.doctors {
		if state != "" && !strings.EqualFold(doc.Address.State, state) {
			continue
		}
		if city != "" && !strings.EqualFold(doc.Address.City, city) {
			continue
		}
		matches = append(matches, doc)
	}
	return matches
}

// Find is FindDoctors taking a Query.
func (d *Directory) Find(q Query) []Doctor {
	return d.FindDoctors(q.State, q.City)
}
