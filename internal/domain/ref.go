package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref ссылка на сущность бэкенда. Бэкенд отдаёт её то строкой id,
// то развёрнутым объектом (populate); оба варианта нормализуются здесь.
type Ref[T any] struct {
	ID       string
	Expanded *T
}

type (
	PharmacyRef = Ref[Pharmacy]
	UserRef     = Ref[User]
)

// RefTo ссылка только по id
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// IsZero true, если ссылка не задана
func (r Ref[T]) IsZero() bool { return r.ID == "" }

func (r Ref[T]) String() string { return r.ID }

// MarshalJSON всегда пишет голый id
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	switch b[0] {
	case '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil
	case '{':
		var obj struct {
			ID      string `json:"id"`
			MongoID string `json:"_id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		id := obj.ID
		if id == "" {
			id = obj.MongoID
		}
		*r = Ref[T]{ID: id, Expanded: &v}
		return nil
	default:
		return fmt.Errorf("ref: unexpected json %s", string(b))
	}
}
