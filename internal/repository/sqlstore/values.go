package sqlstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmmsmind/backend/internal/model"
)

// stampLayout is fixed width so text ordering matches time ordering.
const stampLayout = "2006-01-02T15:04:05.000000000Z"

var now = func() time.Time { return time.Now().UTC() }

func stampValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(stampLayout)
}

func nullStampValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return stampValue(*t)
}

func parseStamp(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

// stamp scans a text timestamp. NULL leaves the zero time.
type stamp struct{ t *time.Time }

func (s stamp) Scan(src any) error {
	if src == nil {
		*s.t = time.Time{}
		return nil
	}
	t, err := parseStamp(src)
	if err != nil {
		return err
	}
	*s.t = t
	return nil
}

type nullStamp struct{ t **time.Time }

func (s nullStamp) Scan(src any) error {
	if src == nil {
		*s.t = nil
		return nil
	}
	t, err := parseStamp(src)
	if err != nil {
		return err
	}
	*s.t = &t
	return nil
}

func dayValue(d model.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullDayValue(d *model.Date) any {
	if d == nil {
		return nil
	}
	return dayValue(*d)
}

func nullIntValue(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func jsonValue(v any) any {
	b, _ := json.Marshal(v)
	return string(b)
}

// jsonText decodes a JSON text column into v.
type jsonText struct{ v any }

func (j jsonText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), j.v)
	case []byte:
		return json.Unmarshal(v, j.v)
	default:
		return fmt.Errorf("cannot scan %T into json", src)
	}
}
