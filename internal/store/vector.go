package store

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Vector is a fixed-dimension embedding. It serializes to and from the
// pgvector literal form "[0.1,0.2,...]" so bun can bind it directly.
type Vector []float32

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func (v Vector) Value() (driver.Value, error) {
	return v.String(), nil
}

func (v *Vector) Scan(src any) error {
	var s string
	switch t := src.(type) {
	case []byte:
		s = string(t)
	case string:
		s = t
	case nil:
		*v = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Vector", src)
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return fmt.Errorf("malformed vector literal %q", s)
	}
	s = strings.Trim(s, "[]")
	if s == "" {
		*v = Vector{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Vector, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("malformed vector element %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	*v = out
	return nil
}
