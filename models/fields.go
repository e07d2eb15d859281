package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"hbnb/utils"
)

// ClassField names the entity kind inside a field record
const ClassField = "__class__"

// number is satisfied by the Number types of JSON decoders in UseNumber mode
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// Fields is the flat field record of an entity, as written to the durable file
type Fields map[string]any

var baseRequired = []string{"id", "created_at", "updated_at"}

// foreign keys that can't be null
var requiredFields = map[Kind][]string{
	KindCity:   {"state_id"},
	KindPlace:  {"city_id", "user_id"},
	KindReview: {"place_id", "user_id"},
}

func (r *Record) fields(k Kind) Fields {
	return Fields{
		ClassField:   k.String(),
		"id":         r.ID,
		"created_at": utils.FormatTimestamp(r.CreatedAt),
		"updated_at": utils.FormatTimestamp(r.UpdatedAt),
	}
}

// FieldsFrom validates the keys of a generically decoded record (e.g. from YAML)
func FieldsFrom(raw map[any]any) (Fields, error) {
	f := make(Fields, len(raw))
	for k, v := range raw {
		name, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidFieldKey, k, k)
		}
		f[name] = v
	}
	return f, nil
}

// FromFields rebuilds an entity of kind k from its field record.
// Every key must be a known attribute and id/timestamps plus required foreign keys must be present.
func FromFields(k Kind, f Fields) (Entity, error) {
	e, err := NewOf(k)
	if err != nil {
		return nil, err
	}
	if class, ok := f[ClassField]; ok && class != k.String() {
		return nil, fmt.Errorf("%w: %s %v for a %s record", ErrInvalidValue, ClassField, class, k)
	}
	for _, name := range append(baseRequired, requiredFields[k]...) {
		if _, ok := f[name]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, k, name)
		}
	}
	for name, value := range f {
		if name == ClassField {
			continue
		}
		if err := e.set(name, value); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
	}
	return e, nil
}

// Decode is FromFields with the kind taken from ClassField
func Decode(f Fields) (Entity, error) {
	class, ok := f[ClassField].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, ClassField)
	}
	k, err := ParseKind(class)
	if err != nil {
		return nil, err
	}
	return FromFields(k, f)
}

func invalid(name string, want string, value any) error {
	return fmt.Errorf("%w: %q expects %s, got %T", ErrInvalidValue, name, want, value)
}

func setString(dst *string, name string, value any) error {
	switch v := value.(type) {
	case string:
		*dst = v
	case nil:
		*dst = ""
	default:
		return invalid(name, "a string", value)
	}
	return nil
}

func setInt(dst *int, name string, value any) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case uint64:
		*dst = int(v)
	case float64:
		if v != math.Trunc(v) {
			return invalid(name, "an integer", value)
		}
		*dst = int(v)
	case number:
		i, err := v.Int64()
		if err != nil {
			return invalid(name, "an integer", value)
		}
		*dst = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return invalid(name, "an integer", value)
		}
		*dst = i
	default:
		return invalid(name, "an integer", value)
	}
	return nil
}

func setFloat(dst **float64, name string, value any) error {
	var f float64
	switch v := value.(type) {
	case nil:
		*dst = nil
		return nil
	case *float64:
		if v == nil {
			*dst = nil
			return nil
		}
		f = *v
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case number:
		parsed, err := v.Float64()
		if err != nil {
			return invalid(name, "a number", value)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return invalid(name, "a number", value)
		}
		f = parsed
	default:
		return invalid(name, "a number", value)
	}
	*dst = &f
	return nil
}

func setTime(dst *time.Time, name string, value any) error {
	switch v := value.(type) {
	case time.Time:
		*dst = v.UTC().Truncate(time.Microsecond)
	case string:
		t, err := utils.ParseTimestamp(v)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidValue, name, err)
		}
		*dst = t
	default:
		return invalid(name, "a timestamp", value)
	}
	return nil
}

func setStrings(dst *[]string, name string, value any) error {
	switch v := value.(type) {
	case nil:
		*dst = nil
	case []string:
		*dst = append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return invalid(name, "a list of strings", value)
			}
			out = append(out, s)
		}
		*dst = out
	default:
		return invalid(name, "a list of strings", value)
	}
	return nil
}
