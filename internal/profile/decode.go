package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

const (
	candidateLabel   = "student_profile"
	opportunityLabel = "internship"
)

// DecodeCandidate converts loosely typed JSON data into a Candidate.
// Values of the wrong shape are rejected instead of being coerced.
func DecodeCandidate(raw map[string]any) (*Candidate, error) {
	var c Candidate
	if err := decodeStrict(candidateLabel, raw, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeOpportunity converts loosely typed JSON data into an Opportunity.
func DecodeOpportunity(raw map[string]any) (*Opportunity, error) {
	var o Opportunity
	if err := decodeStrict(opportunityLabel, raw, &o); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// DecodeOpportunities decodes a list of internships, reporting the index of the first bad entry.
func DecodeOpportunities(raw []any) ([]*Opportunity, error) {
	result := make([]*Opportunity, 0, len(raw))
	for idx, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &InputError{
				Field:  fmt.Sprintf("internships[%d]", idx),
				Reason: fmt.Sprintf("must be an object, got %T", item),
			}
		}

		o, err := DecodeOpportunity(obj)
		if err != nil {
			return nil, fmt.Errorf("internships[%d]: %w", idx, err)
		}
		result = append(result, o)
	}
	return result, nil
}

// LoadCandidate reads a candidate profile from a JSON file.
func LoadCandidate(path string) (*Candidate, error) {
	raw, err := readObject(path)
	if err != nil {
		return nil, err
	}
	return DecodeCandidate(raw)
}

// LoadOpportunity reads an internship description from a JSON file.
func LoadOpportunity(path string) (*Opportunity, error) {
	raw, err := readObject(path)
	if err != nil {
		return nil, err
	}
	return DecodeOpportunity(raw)
}

// LoadOpportunities reads a JSON array of internship descriptions.
func LoadOpportunities(path string) ([]*Opportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InputError{Field: path, Reason: "must contain a JSON array", Cause: err}
	}
	return DecodeOpportunities(raw)
}

func readObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InputError{Field: path, Reason: "must contain a JSON object", Cause: err}
	}
	return raw, nil
}

func decodeStrict(label string, raw map[string]any, target any) error {
	if raw == nil {
		return &InputError{Field: label, Reason: "is required"}
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: false,
		ZeroFields:       true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("building %s decoder: %w", label, err)
	}

	if err := decoder.Decode(raw); err != nil {
		return &InputError{Field: label, Reason: "has a field of the wrong shape", Cause: err}
	}
	return nil
}
