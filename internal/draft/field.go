package draft

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Field holds a live value mirrored into a Store under key.
type Field[T any] struct {
	store Store
	key   string
	value T
}

// Bind creates a field for key. A value already in the store wins over def,
// which is how a draft is recovered after the form is reopened. A stored
// value that no longer decodes is discarded in favour of def.
func Bind[T any](s Store, key string, def T) (*Field[T], error) {
	f := &Field[T]{store: s, key: key, value: def}
	raw, ok, err := s.Load(key)
	if err != nil {
		return nil, fmt.Errorf("load draft %q: %w", key, err)
	}
	if !ok {
		return f, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable draft value")
		return f, nil
	}
	f.value = v
	return f, nil
}

func (f *Field[T]) Key() string { return f.key }

func (f *Field[T]) Get() T { return f.value }

// Set writes v to the store first and only then replaces the live value,
// so a failed write leaves the field as it was.
func (f *Field[T]) Set(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode draft %q: %w", f.key, err)
	}
	if err := f.store.Save(f.key, string(data)); err != nil {
		return fmt.Errorf("save draft %q: %w", f.key, err)
	}
	f.value = v
	return nil
}
