package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bcflow/internal/components/telemetry"
)

const (
	report_file_read   = "file-store.read"
	report_file_append = "file-store.append"
)

// DefaultFile is where records are kept when no path is configured.
const DefaultFile = "extracted_data.json"

// FileStore keeps the log as an indented JSON array in a single file.
type FileStore struct {
	path string
	tel  telemetry.API
	mu   sync.Mutex
}

func NewFileStore(path string, tel telemetry.API) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{
		path: path,
		tel:  telemetry.NewScopedAPI("handoff", tel),
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// decodeLog interprets the contents of a store file. ok is false if the
// contents are not JSON.
//
// only an array is a log, any other value is reported by single so that reads
// treat the file as empty while an append keeps the value as its first record.
// Values that are not strings are dropped and array elements that are not
// objects become empty records so the position of the latest record is kept.
func decodeLog(contents []byte) (records []Record, single bool, ok bool) {
	if len(bytes.TrimSpace(contents)) == 0 {
		return nil, false, true
	}

	var raw any
	err := json.Unmarshal(contents, &raw)
	if err != nil {
		return nil, false, false
	}

	arr, isArray := raw.([]any)
	if !isArray {
		return []Record{toRecord(raw)}, true, true
	}
	records = make([]Record, 0, len(arr))
	for _, elem := range arr {
		records = append(records, toRecord(elem))
	}
	return records, false, true
}

func toRecord(elem any) Record {
	rec := Record{}
	obj, ok := elem.(map[string]any)
	if !ok {
		return rec
	}
	for k, v := range obj {
		str, ok := v.(string)
		if !ok {
			continue
		}
		rec[k] = str
	}
	return rec
}

// read returns the log in the file. When appending, a file holding a single
// value instead of an array is read as a log of that one value.
func (s *FileStore) read(appending bool) ([]Record, error) {
	contents, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read handoff file: %w", err)
	}
	records, single, ok := decodeLog(contents)
	if !ok {
		s.tel.ReportWarning(report_file_read, "malformed handoff file", s.path)
		return nil, nil
	}
	if single && !appending {
		s.tel.ReportDebug("handoff file does not hold an array", s.path)
		return nil, nil
	}
	return records, nil
}

// All returns every record in order of insertion.
func (s *FileStore) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(false)
}

func (s *FileStore) Latest(ctx context.Context) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(false)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[len(records)-1], true, nil
}

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	err := rec.Validate()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(true)
	if err != nil {
		return err
	}
	records = append(records, rec)

	contents, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	err = writeFileAtomic(s.path, contents)
	if err != nil {
		s.tel.ReportBroken(report_file_append, err, s.path)
		return fmt.Errorf("write handoff file: %w", err)
	}

	key, value, _ := rec.Key()
	s.tel.ReportDebug("record appended", key, value, s.path)
	s.tel.ReportCount("records", int64(len(records)))
	return nil
}

func writeFileAtomic(path string, contents []byte) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
