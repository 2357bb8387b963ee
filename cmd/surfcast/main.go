package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/api"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/forecast"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/ingest"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/score"
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/store"
)

// defaultSpots seeds the fixed Bay Area breaks on startup. Swell
// bearings and offshore wind are per-break local knowledge; buoy and
// tide station pairings are the nearest NDBC/CO-OPS stations.
var defaultSpots = []models.Spot{
	{SpotID: "ocean-beach", Name: "Ocean Beach", Latitude: 37.760, Longitude: -122.513, BuoyID: "46026", TideStationID: "9414290", OptimalSwell: []float64{270, 290, 300}, OffshoreWind: 90, PreferredTide: models.TideLow, Active: true},
	{SpotID: "linda-mar", Name: "Linda Mar (Pacifica)", Latitude: 37.592, Longitude: -122.507, BuoyID: "46026", TideStationID: "9414290", OptimalSwell: []float64{250, 270, 290}, OffshoreWind: 90, PreferredTide: models.TideMid, Active: true},
	{SpotID: "montara", Name: "Montara State Beach", Latitude: 37.545, Longitude: -122.515, BuoyID: "46012", TideStationID: "9414131", OptimalSwell: []float64{280, 300}, OffshoreWind: 75, PreferredTide: models.TideMid, Active: true},
	{SpotID: "mavericks", Name: "Mavericks", Latitude: 37.492, Longitude: -122.501, BuoyID: "46012", TideStationID: "9414131", OptimalSwell: []float64{280, 295, 310}, OffshoreWind: 110, PreferredTide: models.TideAny, Active: true},
	{SpotID: "stinson-beach", Name: "Stinson Beach", Latitude: 37.896, Longitude: -122.644, BuoyID: "46214", TideStationID: "9415020", OptimalSwell: []float64{220, 240, 270}, OffshoreWind: 45, PreferredTide: models.TideHigh, Active: true},
	{SpotID: "bolinas", Name: "Bolinas Jetty", Latitude: 37.905, Longitude: -122.686, BuoyID: "46214", TideStationID: "9415020", OptimalSwell: []float64{200, 220, 240}, OffshoreWind: 60, PreferredTide: models.TideMid, Active: true},
}

type cli struct {
	DB       string `help:"Path to SQLite database." default:"data/surfcast.db" env:"SURFCAST_DB"`
	Timezone string `help:"IANA timezone tide predictions are resolved in." default:"America/Los_Angeles" env:"SURFCAST_TZ"`

	Serve  serveCmd  `cmd:"" help:"Run the HTTP server and background ingestion."`
	Ingest ingestCmd `cmd:"" help:"Run a single ingestion pass and exit."`
	Score  scoreCmd  `cmd:"" help:"Score all spots from stored data and exit."`
}

type appContext struct {
	store     *store.Store
	scheduler *ingest.Scheduler
	loc       *time.Location
}

type serveCmd struct {
	Port   string `help:"HTTP server port." default:"8080" env:"PORT"`
	NoPoll bool   `help:"Disable polling (server only, for local dev)."`
}

func (c *serveCmd) Run(app *appContext) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !c.NoPoll {
		go app.scheduler.Run(ctx)
	} else {
		log.Println("polling disabled (--no-poll)")
	}

	server := api.NewServer(app.store, c.Port, app.loc)
	log.Printf("starting server on :%s", c.Port)
	return server.Run(ctx)
}

type ingestCmd struct{}

func (c *ingestCmd) Run(app *appContext) error {
	log.Println("running single ingestion")
	if err := app.scheduler.IngestOnce(); err != nil {
		return err
	}
	log.Println("done")
	return nil
}

type scoreCmd struct {
	Board string `help:"Board type." default:"midlength" enum:"longboard,midlength,shortboard"`
	Skill string `help:"Skill level." default:"intermediate" enum:"beginner,intermediate,advanced"`
}

func (c *scoreCmd) Run(app *appContext) error {
	now := time.Now().In(app.loc)
	spots, err := app.store.GetActiveSpots()
	if err != nil {
		return err
	}

	var scored []score.SpotScore
	for _, sp := range spots {
		m, err := api.BuildMeasurement(app.store, sp, now)
		if err != nil {
			log.Printf("score: %s: %v", sp.SpotID, err)
			continue
		}
		result, err := score.Calculate(m, sp, score.BoardType(c.Board), score.SkillLevel(c.Skill))
		if err != nil {
			log.Printf("score: %s: %v", sp.SpotID, err)
			continue
		}
		scored = append(scored, score.SpotScore{Spot: sp, Result: result})
	}

	for i, ss := range score.Rank(scored) {
		p := forecast.Percentile(ss.Result.Score, now.Month())
		fmt.Printf("%d. %-22s %3d %-9s (%s) %s\n",
			i+1, ss.Spot.Name, ss.Result.Score, ss.Result.Rating,
			forecast.PercentilePhrase(p, now.Month()), ss.Result.Breakdown)
	}
	return nil
}

func main() {
	var flags cli
	kctx := kong.Parse(&flags,
		kong.Name("surfcast"),
		kong.Description("Bay Area surf conditions scoring and recommendations."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", flags.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	// Load timezone once at startup
	loc, err := time.LoadLocation(flags.Timezone)
	if err != nil {
		log.Printf("Warning: could not load %s timezone, using UTC: %v", flags.Timezone, err)
		loc = time.UTC
	}

	st := store.New(db, loc)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	for _, sp := range defaultSpots {
		if err := st.UpsertSpot(sp); err != nil {
			log.Fatalf("upsert spot %s: %v", sp.SpotID, err)
		}
	}
	log.Println("spots seeded")

	app := &appContext{
		store:     st,
		scheduler: ingest.NewScheduler(st, ingest.NewNDBC(), ingest.NewCoops(loc), loc),
		loc:       loc,
	}
	kctx.FatalIfErrorf(kctx.Run(app))
}
