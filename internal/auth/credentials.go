package auth

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Verifier checks login credentials against a flat CSV file with the
// columns "email" and "password_hash" (bcrypt). The file is read once and
// cached for the process lifetime.
type Verifier struct {
	path string

	once  sync.Once
	creds map[string]string // lowercased email -> bcrypt hash
}

// NewVerifier builds a verifier for the given credentials file. A missing
// file is not an error; it just means every login fails.
func NewVerifier(path string) *Verifier {
	return &Verifier{path: path}
}

// Verify reports whether the email/password pair matches a stored hash.
// Malformed rows and malformed hashes count as invalid credentials.
func (v *Verifier) Verify(email, password string) bool {
	v.once.Do(v.load)

	hash, ok := v.creds[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return false
	}
	return ComparePassword(hash, password) == nil
}

func (v *Verifier) load() {
	v.creds = make(map[string]string)

	f, err := os.Open(v.path)
	if err != nil {
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		return
	}

	emailCol, hashCol, err := headerColumns(rows[0])
	if err != nil {
		return
	}
	for _, row := range rows[1:] {
		if len(row) <= emailCol || len(row) <= hashCol {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row[emailCol]))
		hash := strings.TrimSpace(row[hashCol])
		if email != "" && hash != "" {
			v.creds[email] = hash
		}
	}
}

func headerColumns(header []string) (emailCol, hashCol int, err error) {
	emailCol, hashCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "email":
			emailCol = i
		case "password_hash":
			hashCol = i
		}
	}
	if emailCol < 0 || hashCol < 0 {
		return 0, 0, fmt.Errorf("credentials file missing email/password_hash columns")
	}
	return emailCol, hashCol, nil
}
