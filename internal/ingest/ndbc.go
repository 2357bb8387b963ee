package ingest

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/httputil"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/metrics"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

// Unit conversions from NDBC's metric feed to the feet/mph the engine
// scores in.
const (
	metersToFeet = 3.28084
	mpsToMph     = 2.23694
)

// NDBC fetches standard meteorological observations from the NDBC
// realtime2 text feed.
type NDBC struct {
	baseURL string
	client  *http.Client
}

func NewNDBC() *NDBC {
	return &NDBC{
		baseURL: "https://www.ndbc.noaa.gov/data/realtime2",
		client:  httputil.NewClient(),
	}
}

// FetchLatest returns the most recent observation for a buoy. The
// realtime2 file lists newest first; the first parseable data row wins.
func (n *NDBC) FetchLatest(buoyID string) (*models.BuoyObservation, error) {
	url := fmt.Sprintf("%s/%s.txt", n.baseURL, buoyID)

	var body []byte
	operation := func() error {
		start := time.Now()
		resp, err := n.client.Get(url)
		metrics.NDBCAPILatency.WithLabelValues(buoyID).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.NDBCAPICallsTotal.WithLabelValues(buoyID, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch realtime2: %w", err))
		}
		defer resp.Body.Close()

		metrics.NDBCAPICallsTotal.WithLabelValues(buoyID, resp.Status).Inc()
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("retryable: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch realtime2: status %d: %s", resp.StatusCode, string(b)))
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

	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		obs, err := ParseRealtime2Line(buoyID, line)
		if err != nil {
			continue
		}
		return obs, nil
	}
	return nil, fmt.Errorf("no parseable observations for buoy %s", buoyID)
}

// ParseRealtime2Line parses one data row of an NDBC realtime2 standard
// meteorological file. Columns:
//
//	YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE
//
// Missing values are the literal "MM" and stay NULL. Units are
// converted to feet/mph/Fahrenheit on the way in.
func ParseRealtime2Line(buoyID, line string) (*models.BuoyObservation, error) {
	fields := strings.Fields(line)
	if len(fields) < 15 {
		return nil, fmt.Errorf("short realtime2 row: %d fields", len(fields))
	}

	var ts [5]int
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("timestamp field %d: %w", i, err)
		}
		ts[i] = v
	}
	observedAt := time.Date(ts[0], time.Month(ts[1]), ts[2], ts[3], ts[4], 0, 0, time.UTC)

	obs := &models.BuoyObservation{
		BuoyID:     buoyID,
		ObservedAt: observedAt,
		RawLine:    line,
	}

	if v, ok := parseField(fields[5]); ok {
		obs.WindDir = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := parseField(fields[6]); ok {
		obs.WindSpeed = sql.NullFloat64{Float64: v * mpsToMph, Valid: true}
	}
	if v, ok := parseField(fields[8]); ok {
		obs.WaveHeight = sql.NullFloat64{Float64: v * metersToFeet, Valid: true}
	}
	if v, ok := parseField(fields[9]); ok {
		obs.WavePeriod = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := parseField(fields[11]); ok {
		obs.SwellDir = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := parseField(fields[14]); ok {
		obs.WaterTemp = sql.NullFloat64{Float64: v*9/5 + 32, Valid: true}
	}
	return obs, nil
}

func parseField(s string) (float64, bool) {
	if s == "MM" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
