// Package storage persists record lists between pipeline stages. Stages
// exchange JSON files of raw records; the Keycloak realm export writes CSV.
// The formats are opaque to the core: only the documented record shape
// matters.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/opsforge/usersync/internal/sources/keycloak"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/errors"
)

// Default file names, matching what the fetch stages produce and the
// compare stage consumes.
const (
	PrimaryUsersFile   = "jira_users_with_profiles.json"
	SecondaryUsersFile = "m365_users_active.json"
	ReportFile         = "sync_report.json"
)

// SaveRecords writes user records to path as indented JSON in the flat
// fetch-stage format.
func SaveRecords(path string, records []directory.UserRecord) error {
	data, err := json.MarshalIndent(directory.ToRawAll(records), "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// LoadRawRecords reads a raw record list from path and normalizes it for
// the given source system. A missing or unreadable file fails the run; the
// operator has to run the matching fetch stage first.
func LoadRawRecords(path string, source directory.SourceSystem) ([]directory.UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var raws []directory.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.NewParseError("json", path, "record list is not valid JSON", err)
	}

	return directory.NormalizeAll(source, raws), nil
}

// WriteRealmCSV writes one realm's users as CSV with a username column,
// creating the directory if needed.
func WriteRealmCSV(dir, realm string, users []keycloak.User) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapIO("create", dir, err)
	}

	path := filepath.Join(dir, realm+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"username"}); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	for _, u := range users {
		if err := w.Write([]string{u.Username}); err != nil {
			return "", errors.WrapIO("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}
