// Package repository turns raw store documents into validated models.
//
// Every document read from the store is decoded and validated here; a
// document that does not decode into a valid record is reported with
// ErrInvalidRecord instead of being handed to the services half-parsed.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mossy-p/ballo/internal/store"
)

var ErrInvalidRecord = errors.New("invalid stored record")

type validator interface {
	Validate() error
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// decodeInto unmarshals doc into v and validates it.
func decodeInto(doc *store.Document, v validator) error {
	if err := json.Unmarshal(doc.Data, v); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidRecord, doc.ID, err)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidRecord, doc.ID, err)
	}
	return nil
}
