package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/astro"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/forecast"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/metrics"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/score"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/tide"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// surferParams reads the board/skill query parameters, defaulting to a
// midlength intermediate.
func surferParams(r *http.Request) (score.BoardType, score.SkillLevel) {
	board := score.BoardType(r.URL.Query().Get("board"))
	if board == "" {
		board = score.BoardMidlength
	}
	skill := score.SkillLevel(r.URL.Query().Get("skill"))
	if skill == "" {
		skill = score.SkillIntermediate
	}
	return board, skill
}

func (s *Server) spotFromPath(w http.ResponseWriter, r *http.Request) *models.Spot {
	sp, err := s.store.GetSpot(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	if sp == nil {
		http.Error(w, "unknown spot", http.StatusNotFound)
		return nil
	}
	return sp
}

func spotVM(sp models.Spot) SpotVM {
	return SpotVM{
		SpotID:        sp.SpotID,
		Name:          sp.Name,
		Latitude:      sp.Latitude,
		Longitude:     sp.Longitude,
		BuoyID:        sp.BuoyID,
		TideStationID: sp.TideStationID,
		OptimalSwell:  sp.OptimalSwell,
		OffshoreWind:  sp.OffshoreWind,
		PreferredTide: string(sp.PreferredTide),
	}
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	vms := make([]SpotVM, 0, len(spots))
	for _, sp := range spots {
		vms = append(vms, spotVM(sp))
	}
	writeJSON(w, vms)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	board, skill := surferParams(r)
	now := time.Now().In(s.loc)

	spots, err := s.store.GetActiveSpots()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var scored []score.SpotScore
	var unscorable []SpotScoreVM
	for _, sp := range spots {
		m, err := BuildMeasurement(s.store, sp, now)
		if err != nil {
			log.Printf("api: score %s: %v", sp.SpotID, err)
			unscorable = append(unscorable, SpotScoreVM{SpotID: sp.SpotID, Name: sp.Name, Error: err.Error()})
			continue
		}
		result, err := score.Calculate(m, sp, board, skill)
		if err != nil {
			log.Printf("api: score %s: %v", sp.SpotID, err)
			unscorable = append(unscorable, SpotScoreVM{SpotID: sp.SpotID, Name: sp.Name, Error: err.Error()})
			continue
		}
		metrics.SpotScoresComputed.WithLabelValues(sp.SpotID).Inc()
		scored = append(scored, score.SpotScore{Spot: sp, Result: result})
	}

	resp := RankedScoresResponse{
		GeneratedAt: now,
		Board:       string(board),
		Skill:       string(skill),
		Spots:       make([]SpotScoreVM, 0, len(scored)),
		Unscorable:  unscorable,
	}
	for _, ss := range score.Rank(scored) {
		p := forecast.Percentile(ss.Result.Score, now.Month())
		resp.Spots = append(resp.Spots, SpotScoreVM{
			SpotID:           ss.Spot.SpotID,
			Name:             ss.Spot.Name,
			Score:            ss.Result.Score,
			Rating:           ss.Result.Rating,
			Breakdown:        ss.Result.Breakdown,
			Percentile:       p,
			PercentilePhrase: forecast.PercentilePhrase(p, now.Month()),
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleSpotScore(w http.ResponseWriter, r *http.Request) {
	sp := s.spotFromPath(w, r)
	if sp == nil {
		return
	}
	board, skill := surferParams(r)
	now := time.Now().In(s.loc)

	m, err := BuildMeasurement(s.store, *sp, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	result, err := score.Calculate(m, *sp, board, skill)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	metrics.SpotScoresComputed.WithLabelValues(sp.SpotID).Inc()

	p := forecast.Percentile(result.Score, now.Month())
	writeJSON(w, SpotScoreResponse{
		GeneratedAt:      now,
		Spot:             spotVM(*sp),
		Board:            string(board),
		Skill:            string(skill),
		Measurement:      m,
		Result:           result,
		Percentile:       p,
		PercentilePhrase: forecast.PercentilePhrase(p, now.Month()),
	})
}

func (s *Server) handleSpotWindow(w http.ResponseWriter, r *http.Request) {
	sp := s.spotFromPath(w, r)
	if sp == nil {
		return
	}
	now := time.Now().In(s.loc)

	samples, _, err := TideDataForDay(s.store, sp.TideStationID, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// A nil window means no recommendation, not a fault.
	writeJSON(w, WindowResponse{
		GeneratedAt: now,
		SpotID:      sp.SpotID,
		Window:      tide.BestWindow(samples, sp.PreferredTide),
	})
}

func (s *Server) handleSpotWeek(w http.ResponseWriter, r *http.Request) {
	sp := s.spotFromPath(w, r)
	if sp == nil {
		return
	}
	now := time.Now().In(s.loc)

	days, err := WeekTides(s.store, sp.TideStationID, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, forecast.AnalyzeWeek(days, sp.PreferredTide))
}

func (s *Server) handleDawnPatrol(w http.ResponseWriter, r *http.Request) {
	sp := s.spotFromPath(w, r)
	if sp == nil {
		return
	}
	now := time.Now().In(s.loc)

	driveMinutes := -1
	if v := r.URL.Query().Get("drive"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			http.Error(w, "drive must be a non-negative integer of minutes", http.StatusBadRequest)
			return
		}
		driveMinutes = d
	}

	sun := astro.ComputeSunTimes(now, sp.Latitude, sp.Longitude)
	phase := astro.GetMoonPhase(now)
	writeJSON(w, DawnPatrolResponse{
		GeneratedAt: now,
		SpotID:      sp.SpotID,
		SunTimes:    sun,
		DawnPatrol:  astro.DawnPatrolStatus(now, sun, driveMinutes),
		MoonPhase:   astro.MoonName(phase),
		MoonIllum:   astro.MoonIllumination(now),
	})
}

func (s *Server) handleSpotTide(w http.ResponseWriter, r *http.Request) {
	sp := s.spotFromPath(w, r)
	if sp == nil {
		return
	}
	now := time.Now().In(s.loc)

	samples, events, err := TideDataForDay(s.store, sp.TideStationID, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	height, _ := tide.CurrentHeight(samples, now)
	writeJSON(w, TideResponse{
		GeneratedAt: now,
		SpotID:      sp.SpotID,
		StationID:   sp.TideStationID,
		Height:      height,
		Phase:       tide.CurrentPhase(events, now),
		Samples:     samples,
	})
}
