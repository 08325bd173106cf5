package target

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"mcpsync/internal/logging"
	"mcpsync/internal/model"
	"mcpsync/pkg/fileops"
)

// Adapter performs all file access for one target. Reads never trust the
// file shape (the documents are edited by humans and by the tools
// themselves), and every write goes through the atomic path.
type Adapter struct {
	desc   Descriptor
	logger *logging.AppLogger
}

// NewAdapter builds the adapter for a descriptor. logger may be nil.
func NewAdapter(desc Descriptor, logger *logging.AppLogger) *Adapter {
	return &Adapter{desc: desc, logger: logger}
}

// ID returns the target identifier.
func (a *Adapter) ID() string {
	return a.desc.ID
}

// Field returns the document key holding the entry mapping.
func (a *Adapter) Field() string {
	return a.desc.Field
}

// DefaultCandidatePaths returns the descriptor's config locations in
// preference order.
func (a *Adapter) DefaultCandidatePaths() []string {
	return a.desc.CandidatePaths()
}

// ReadDocument reads and parses the whole config document at path.
// Numbers are kept in their source representation so that a later write
// can re-serialize untouched values byte-identically.
func (a *Adapter) ReadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{TargetID: a.desc.ID, Path: path}
		}
		return nil, &IOError{TargetID: a.desc.ID, Path: path, Op: "read", Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedDocumentError{TargetID: a.desc.ID, Path: path, Err: err}
	}
	return doc, nil
}

// Read returns the typed entry mapping at path. Any shape violation in any
// entry fails the whole read with an InvalidConfigError carrying one
// message per problem.
func (a *Adapter) Read(path string) (model.TargetConfig, error) {
	doc, err := a.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	cfg, problems := model.DecodeTargetConfig(doc, a.desc.Field)
	if len(problems) > 0 {
		return nil, &InvalidConfigError{TargetID: a.desc.ID, Path: path, Problems: problems}
	}

	if a.logger != nil {
		a.logger.Debug("Read target config", "target", a.desc.ID, "path", path, "entries", len(cfg))
	}
	return cfg, nil
}

// ReadPermissive reads path keeping every entry whose command is a
// non-empty string and dropping the rest. The second return lists the
// dropped entry names. Used by merge-read recovery; strict callers use
// Read.
func (a *Adapter) ReadPermissive(path string) (model.TargetConfig, []string, error) {
	doc, err := a.ReadDocument(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, dropped := model.SalvageTargetConfig(doc, a.desc.Field)
	if len(dropped) > 0 && a.logger != nil {
		a.logger.Warn("Salvaged target config", "target", a.desc.ID, "path", path, "dropped", dropped)
	}
	return cfg, dropped, nil
}

// Validate re-checks a typed config before it is written.
func (a *Adapter) Validate(cfg model.TargetConfig) []string {
	return model.ValidateConfig(cfg)
}

// Backup copies the live file at path to a timestamped sibling and returns
// the backup path. A missing file is not an error: a target being written
// for the first time has nothing to protect, and the empty backup path
// records that.
func (a *Adapter) Backup(path string, at time.Time) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &IOError{TargetID: a.desc.ID, Path: path, Op: "stat", Err: err}
	}

	backupPath := fileops.BackupPath(path, at)
	if err := fileops.AtomicCopy(path, backupPath); err != nil {
		return "", &IOError{TargetID: a.desc.ID, Path: path, Op: "backup", Err: err}
	}

	if a.logger != nil {
		a.logger.Debug("Created backup", "target", a.desc.ID, "path", path, "backup", backupPath)
	}
	return backupPath, nil
}

// WriteAtomic replaces the entry mapping at path with cfg. The write is
// refused when cfg fails validation. Only the target's own field is
// rewritten: sibling top-level fields survive untouched (Zed keeps its
// entire editor configuration next to context_servers), and entries whose
// definitions are unchanged keep their exact raw value, including any
// extra keys other tools put there.
func (a *Adapter) WriteAtomic(path string, cfg model.TargetConfig) error {
	if problems := a.Validate(cfg); len(problems) > 0 {
		return &InvalidConfigError{TargetID: a.desc.ID, Path: path, Problems: problems}
	}

	doc, err := a.ReadDocument(path)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return err
		}
		// Missing or damaged documents are rebuilt from scratch.
		doc = make(map[string]any)
	}

	currentField, _ := doc[a.desc.Field].(map[string]any)
	next := make(map[string]any, len(cfg))
	for name, def := range cfg {
		if rawVal, ok := currentField[name]; ok {
			if decoded, _ := model.DecodeDefinition(name, rawVal); decoded.Equal(def) {
				next[name] = rawVal
				continue
			}
		}
		next[name] = encodeDefinition(def)
	}
	doc[a.desc.Field] = next

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &IOError{TargetID: a.desc.ID, Path: path, Op: "encode", Err: err}
	}
	data = append(data, '\n')

	if err := fileops.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return &IOError{TargetID: a.desc.ID, Path: path, Op: "write", Err: err}
	}
	if err := fileops.AtomicWriteFile(path, data, 0644); err != nil {
		return &IOError{TargetID: a.desc.ID, Path: path, Op: "write", Err: err}
	}

	if a.logger != nil {
		a.logger.Debug("Wrote target config", "target", a.desc.ID, "path", path, "entries", len(cfg))
	}
	return nil
}

// encodeDefinition converts a typed definition into the generic document
// representation.
func encodeDefinition(def model.ServerDefinition) any {
	raw, _ := json.Marshal(def)
	var out any
	_ = json.Unmarshal(raw, &out)
	return out
}
