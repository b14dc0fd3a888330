package rates

import (
	"time"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

// Point is one recorded rate
type Point struct {
	At   time.Time `json:"at"`
	Rate float64   `json:"rate"`
}

// History is an on-disk time series of fetched rates
type History struct {
	storage tstorage.Storage
	now     func() time.Time
}

// OpenHistory opens the time series under dir
func OpenHistory(dir string) (*History, error) {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "open rate history %s", dir)
	}
	return &History{storage: s, now: time.Now}, nil
}

func metric(base, secondary string) string {
	return "rate_" + domain.RateKey(base, secondary)
}

// Record stores q at the time it was fetched
func (h *History) Record(q Quote) error {
	err := h.storage.InsertRows([]tstorage.Row{{
		Metric:    metric(q.Base, q.Secondary),
		DataPoint: tstorage.DataPoint{Timestamp: h.now().Unix(), Value: q.Rate},
	}})
	return errors.Wrap(err, "insert rate point")
}

// Range returns the points recorded in [from, to)
func (h *History) Range(base, secondary string, from, to time.Time) ([]Point, error) {
	pts, err := h.storage.Select(metric(base, secondary), nil, from.Unix(), to.Unix())
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select rate points")
	}
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		out = append(out, Point{At: time.Unix(p.Timestamp, 0).UTC(), Rate: p.Value})
	}
	return out, nil
}

// Close flushes and closes the series
func (h *History) Close() error {
	return h.storage.Close()
}
