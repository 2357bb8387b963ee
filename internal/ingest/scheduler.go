package ingest

import (
	"context"
	"log"
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/metrics"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/store"
)

// tideFetchDays is how far ahead tide predictions are kept; the week
// forecast needs seven full days.
const tideFetchDays = 8

type Scheduler struct {
	store        *store.Store
	ndbc         *NDBC
	coops        *Coops
	loc          *time.Location
	obsInterval  time.Duration
	tideInterval time.Duration
}

func NewScheduler(st *store.Store, ndbc *NDBC, coops *Coops, loc *time.Location) *Scheduler {
	return &Scheduler{
		store:        st,
		ndbc:         ndbc,
		coops:        coops,
		loc:          loc,
		obsInterval:  30 * time.Minute,
		tideInterval: 6 * time.Hour,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.ingestObservations()
	s.ingestTides()

	obsTicker := time.NewTicker(s.obsInterval)
	tideTicker := time.NewTicker(s.tideInterval)
	defer obsTicker.Stop()
	defer tideTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: stopping")
			return
		case <-obsTicker.C:
			s.ingestObservations()
		case <-tideTicker.C:
			s.ingestTides()
		}
	}
}

// IngestOnce runs a single observation and tide ingestion pass.
func (s *Scheduler) IngestOnce() error {
	s.ingestObservations()
	s.ingestTides()
	return nil
}

func (s *Scheduler) ingestObservations() {
	buoys, err := s.activeBuoys()
	if err != nil {
		log.Printf("ingest: list buoys: %v", err)
		return
	}

	for _, buoyID := range buoys {
		obs, err := s.ndbc.FetchLatest(buoyID)
		if err != nil {
			log.Printf("ingest: buoy %s: %v", buoyID, err)
			continue
		}

		if flags := ValidateObservation(obs); len(flags) > 0 {
			obs.QCStatus = 1
			log.Printf("ingest: buoy %s flagged: %s", buoyID, QualityFlagsToJSON(flags))
		}

		if err := s.store.InsertObservation(*obs); err != nil {
			log.Printf("ingest: store buoy %s: %v", buoyID, err)
			continue
		}
		metrics.ObservationsIngested.WithLabelValues(buoyID).Inc()
	}
}

func (s *Scheduler) ingestTides() {
	stations, err := s.activeTideStations()
	if err != nil {
		log.Printf("ingest: list tide stations: %v", err)
		return
	}

	now := time.Now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, tideFetchDays)

	for _, stationID := range stations {
		preds, err := s.coops.FetchHourly(stationID, from, to)
		if err != nil {
			log.Printf("ingest: station %s hourly: %v", stationID, err)
			continue
		}
		if err := s.store.ReplaceTidePredictions(stationID, from, to, preds); err != nil {
			log.Printf("ingest: store station %s hourly: %v", stationID, err)
			continue
		}
		metrics.TidePredictionsIngested.WithLabelValues(stationID).Add(float64(len(preds)))

		events, err := s.coops.FetchHighLow(stationID, from, to)
		if err != nil {
			log.Printf("ingest: station %s hilo: %v", stationID, err)
			continue
		}
		if err := s.store.ReplaceTideEvents(stationID, from, to, events); err != nil {
			log.Printf("ingest: store station %s hilo: %v", stationID, err)
		}
	}
}

func (s *Scheduler) activeBuoys() ([]string, error) {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var buoys []string
	for _, sp := range spots {
		if sp.BuoyID != "" && !seen[sp.BuoyID] {
			seen[sp.BuoyID] = true
			buoys = append(buoys, sp.BuoyID)
		}
	}
	return buoys, nil
}

func (s *Scheduler) activeTideStations() ([]string, error) {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var stations []string
	for _, sp := range spots {
		if sp.TideStationID != "" && !seen[sp.TideStationID] {
			seen[sp.TideStationID] = true
			stations = append(stations, sp.TideStationID)
		}
	}
	return stations, nil
}
