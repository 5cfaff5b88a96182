package report

import (
	"encoding/json"
	"os"

	"github.com/opsforge/usersync/pkg/errors"
)

// Marshal serializes the report to indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return data, nil
}

// Unmarshal parses a report from JSON and validates its required fields.
// A report that is not valid JSON or lacks required fields is a fatal
// condition for planning, surfaced as a ParseError.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.NewParseError("json", "", "report is not valid JSON", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the fields planning depends on.
func (r *Report) Validate() error {
	if r.GeneratedAt.IsZero() {
		return errors.NewParseError("json", "", "report is missing generated_at", nil)
	}
	if !r.Mode.Valid() {
		return errors.NewParseError("json", "", "report has unknown comparison_mode '"+string(r.Mode)+"'", nil)
	}
	return nil
}

// Save writes the report to path as JSON.
func (r *Report) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads and validates a report from path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	r, err := Unmarshal(data)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	return r, nil
}
