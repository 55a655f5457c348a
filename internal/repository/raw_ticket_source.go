package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/servicedesk/sla-agent/internal/domain"
)

// ErrDatasetMissing reports that the configured dataset does not exist.
var ErrDatasetMissing = errors.New("dataset not found")

// RawTicketSource loads the raw ticket dataset.
type RawTicketSource interface {
	Name() string
	Load(ctx context.Context) ([]domain.RawTicket, error)
}

type fileSource struct {
	path string
}

// NewFileSource reads a JSON array, or a YAML sequence when the path ends in .yaml/.yml.
func NewFileSource(path string) RawTicketSource {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string {
	return "file:" + s.path
}

func (s *fileSource) Load(ctx context.Context) ([]domain.RawTicket, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrDatasetMissing)
		}
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) ([]domain.RawTicket, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []domain.RawTicket
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return records, nil
}

func decodeYAML(data []byte) ([]domain.RawTicket, error) {
	var records []domain.RawTicket
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return records, nil
}

// decodeDocument parses one JSON object stored per database row.
func decodeDocument(doc string) (domain.RawTicket, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	var record domain.RawTicket
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	return record, nil
}

type unavailableSource struct {
	name string
	err  error
}

// NewUnavailableSource stands in for a source that could not be set up;
// every Load reports err.
func NewUnavailableSource(name string, err error) RawTicketSource {
	return &unavailableSource{name: name, err: err}
}

func (s *unavailableSource) Name() string {
	return s.name
}

func (s *unavailableSource) Load(context.Context) ([]domain.RawTicket, error) {
	return nil, s.err
}
