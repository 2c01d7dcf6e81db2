// Package store persists the edited field list between sessions.
//
// The state file is a small YAML document:
//
//	version: 1
//	fields: [u8, u128]
//
// A missing file is not an error and yields the default list. A file that
// cannot be decoded also yields the default list, together with an error the
// caller may log.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/layout"
)

// Version is the state format written by Save.
const Version = 1

const (
	appDir   = "structviz"
	fileName = "fields.yaml"
)

// Default returns the field list used when no state exists.
func Default() layout.FieldList {
	return layout.FieldList{layout.U8, layout.U128}
}

type document struct {
	Version int              `yaml:"version"`
	Fields  layout.FieldList `yaml:"fields,flow"`
}

// Store reads and writes the state file at one path.
type Store struct {
	path string
}

// New returns a store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the state file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "locate user config dir")
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted field list. The returned list is always usable:
// on any failure it is the default list.
func (s *Store) Load() (layout.FieldList, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			Logger().Debug("no saved state, using defaults", zap.String("path", s.path))
			return Default(), nil
		}
		return Default(), errors.IO(errors.PhaseLoad, s.path, err)
	}

	fields, err := Decode(data)
	if err != nil {
		Logger().Warn("discarding unreadable state",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return Default(), err
	}

	Logger().Debug("loaded state",
		zap.String("path", s.path),
		zap.Stringer("fields", fields),
	)
	return fields, nil
}

// Save writes fields, replacing the previous state atomically.
func (s *Store) Save(fields layout.FieldList) error {
	data, err := Encode(fields)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.IO(errors.PhaseSave, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+fileName+".*")
	if err != nil {
		return errors.IO(errors.PhaseSave, dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.IO(errors.PhaseSave, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.IO(errors.PhaseSave, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.IO(errors.PhaseSave, s.path, err)
	}

	Logger().Debug("saved state",
		zap.String("path", s.path),
		zap.Stringer("fields", fields),
	)
	return nil
}

// Encode serializes fields in the state format.
func Encode(fields layout.FieldList) ([]byte, error) {
	if fields == nil {
		fields = layout.FieldList{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Version: Version, Fields: fields}); err != nil {
		return nil, errors.Wrap(errors.PhaseSave, errors.KindInvalidData, err, "encode state")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseSave, errors.KindInvalidData, err, "encode state")
	}
	return buf.Bytes(), nil
}

// Decode parses a state document.
func Decode(data []byte) (layout.FieldList, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "decode state")
	}
	if doc.Version < 0 {
		return nil, errors.InvalidData(errors.PhaseLoad, []string{"version"},
			fmt.Sprintf("negative state version %d", doc.Version))
	}
	if doc.Version > Version {
		return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Value(doc.Version).
			Detail("state version %d is newer than %d", doc.Version, Version).
			Build()
	}
	if doc.Fields == nil {
		doc.Fields = layout.FieldList{}
	}
	return doc.Fields, nil
}
