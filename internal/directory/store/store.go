package store

import (
	"errors"
	"sync"

	"staffdir/internal/directory/format"
	"staffdir/internal/directory/models"
)

// ErrNotFound is returned when an index does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// DataStore is the ordered source of truth for "which person is at position i".
// Each ingestion replaces the contents wholesale; nothing mutates records in place.
// Reads hand out copies so filtered views cannot write back.
type DataStore struct {
	mu      sync.RWMutex
	records []models.PersonRecord
	loaded  bool
}

// New returns an empty store.
func New() *DataStore {
	return &DataStore{}
}

// Ingest normalizes raw upstream people, assigns indices by input position,
// replaces the store contents and returns the new contents.
func (s *DataStore) Ingest(raw []models.RawPerson) []models.PersonRecord {
	records := make([]models.PersonRecord, len(raw))
	for i, p := range raw {
		records[i] = toRecord(i, p)
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.mu.Unlock()

	return s.All()
}

// All returns a copy of every record in store order.
func (s *DataStore) All() []models.PersonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PersonRecord, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the record at index i.
func (s *DataStore) At(i int) (models.PersonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.records) {
		return models.PersonRecord{}, ErrNotFound
	}
	return s.records[i], nil
}

// Len reports the number of records.
func (s *DataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Loaded reports whether an ingestion has completed.
func (s *DataStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func toRecord(index int, p models.RawPerson) models.PersonRecord {
	return models.PersonRecord{
		Index:        index,
		ImageURL:     p.Picture.Large,
		FullName:     p.Name.First + " " + p.Name.Last,
		Email:        p.Email,
		BirthDate:    format.NormalizeBirthDate(p.DOB.Date),
		Phone:        format.NormalizePhone(p.Cell),
		StreetNumber: p.Location.Street.Number.String(),
		StreetName:   p.Location.Street.Name,
		City:         p.Location.City,
		State:        p.Location.State,
		PostalCode:   p.Location.Postcode.String(),
	}
}
