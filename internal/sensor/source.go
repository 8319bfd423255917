// Package sensor delivers gas sensor snapshots to the scent finder.
package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

// ErrSourceClosed is returned by Subscribe once a source has shut down.
var ErrSourceClosed = errors.New("sensor source closed")

// Source streams reading snapshots. Subscribe calls onSnapshot for every new
// document and onError at most once if the stream breaks. A delivery already in
// flight may land after unsubscribe returns, so subscribers drop stale calls.
type Source interface {
	Subscribe(ctx context.Context, onSnapshot func(domain.Readings), onError func(error)) (unsubscribe func(), err error)
}

// ReadingsFromMap converts a reading document. Missing keys read as zero;
// non-numeric values are an error.
func ReadingsFromMap(doc map[string]any) (domain.Readings, error) {
	var r domain.Readings
	fields := []struct {
		key string
		dst *float64
	}{
		{domain.SensorMQ3, &r.MQ3},
		{domain.SensorMQ4, &r.MQ4},
		{domain.SensorMQ135, &r.MQ135},
	}
	for _, f := range fields {
		raw, ok := doc[f.key]
		if !ok || raw == nil {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return domain.Readings{}, fmt.Errorf("reading %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unsupported value %T", v)
	}
}
