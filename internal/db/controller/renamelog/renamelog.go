// Package renamelog records name changes of permissions and roles.
//
// Names are what authorization checks compare, so a rename silently changes
// the meaning of every stored reference to the old name. The log keeps the
// history in the settings table for operators to follow up on.
package renamelog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/setting"
)

const (
	// SettingKey is the settings row holding the log.
	SettingKey = "rbac_renames"

	// MaxEntries caps the log; the oldest entries are dropped first.
	MaxEntries = 500

	version = 1
)

// Entry is one recorded rename.
type Entry struct {
	Entity string    `json:"entity"`
	ID     uint      `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
}

type document struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Append adds e to the log. Run it in the transaction performing the rename.
func Append(db *gorm.DB, e Entry) error {
	doc, err := load(db, true)
	if err != nil {
		return err
	}

	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	doc.Entries = append(doc.Entries, e)
	if over := len(doc.Entries) - MaxEntries; over > 0 {
		doc.Entries = doc.Entries[over:]
	}

	doc.Version = version

	return setting.Save(db, SettingKey, doc)
}

// Load returns all recorded renames, oldest first.
func Load(db *gorm.DB) ([]Entry, error) {
	doc, err := load(db, false)
	if err != nil {
		return nil, err
	}

	return doc.Entries, nil
}

func load(db *gorm.DB, lock bool) (document, error) {
	doc := document{Version: version, Entries: []Entry{}}

	err := setting.Load(db, SettingKey, &doc, lock)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return doc, nil
	}

	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	return doc, err
}
