package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/httputil"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/metrics"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

// Coops fetches tide predictions from the NOAA CO-OPS data API.
// Heights are feet MLLW; timestamps come back in the station's local
// time zone and are resolved against loc.
type Coops struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
}

func NewCoops(loc *time.Location) *Coops {
	return &Coops{
		baseURL: "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		client:  httputil.NewClient(),
		loc:     loc,
	}
}

type coopsPrediction struct {
	T    string `json:"t"`
	V    string `json:"v"`
	Type string `json:"type,omitempty"`
}

type coopsResponse struct {
	Predictions []coopsPrediction `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// FetchHourly returns hourly tide predictions for [from, to].
func (c *Coops) FetchHourly(stationID string, from, to time.Time) ([]models.TidePrediction, error) {
	preds, err := c.fetch(stationID, "h", from, to)
	if err != nil {
		return nil, err
	}
	out := make([]models.TidePrediction, 0, len(preds))
	for _, p := range preds {
		t, height, err := c.parsePrediction(p)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TidePrediction{StationID: stationID, PredictedAt: t, Height: height})
	}
	return out, nil
}

// FetchHighLow returns the discrete high/low events for [from, to].
func (c *Coops) FetchHighLow(stationID string, from, to time.Time) ([]models.TideEvent, error) {
	preds, err := c.fetch(stationID, "hilo", from, to)
	if err != nil {
		return nil, err
	}
	out := make([]models.TideEvent, 0, len(preds))
	for _, p := range preds {
		t, height, err := c.parsePrediction(p)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TideEvent{StationID: stationID, PredictedAt: t, Height: height, Type: p.Type})
	}
	return out, nil
}

func (c *Coops) parsePrediction(p coopsPrediction) (time.Time, float64, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", p.T, c.loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse prediction time %q: %w", p.T, err)
	}
	v, err := strconv.ParseFloat(p.V, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse prediction height %q: %w", p.V, err)
	}
	return t, v, nil
}

func (c *Coops) fetch(stationID, interval string, from, to time.Time) ([]coopsPrediction, error) {
	url := fmt.Sprintf(
		"%s?product=predictions&application=surfcast&station=%s&begin_date=%s&end_date=%s&datum=MLLW&units=english&time_zone=lst_ldt&interval=%s&format=json",
		c.baseURL, stationID, from.Format("20060102"), to.Format("20060102"), interval,
	)

	var body []byte
	operation := func() error {
		resp, err := c.client.Get(url)
		if err != nil {
			metrics.CoopsAPICallsTotal.WithLabelValues(stationID, interval, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch predictions: %w", err))
		}
		defer resp.Body.Close()

		metrics.CoopsAPICallsTotal.WithLabelValues(stationID, interval, resp.Status).Inc()
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("retryable: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch predictions: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var data coopsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal predictions: %w", err)
	}
	if data.Error != nil {
		return nil, fmt.Errorf("coops error for station %s: %s", stationID, data.Error.Message)
	}
	return data.Predictions, nil
}
