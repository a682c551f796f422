package fuelprices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"openfuel-backend/lib/scrapers/goodreturns"
	"openfuel-backend/lib/timezone"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("openfuel.services.fuelprices")

type SourceConfig struct {
	Name        string `json:"name"`
	Url         string `json:"url"`
	Kind        Kind   `json:"kind"`
	Extractor   string `json:"extractor"`
	WaitSeconds int64  `json:"wait_seconds"`
}

type ArchiveConfig struct {
	Driver string `json:"driver"`
	Url    string `json:"url"`
}

type Config struct {
	Sources        []SourceConfig    `json:"sources"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	RetryCount     int               `json:"retry_count"`
	RatioThreshold float64           `json:"ratio_threshold"`
	MinCities      int               `json:"min_cities"`
	Aliases        map[string]string `json:"aliases"`
	Output         string            `json:"output"`
	Archive        ArchiveConfig     `json:"archive"`
	Smtp           SmtpConfig        `json:"smtp"`
}

func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "goodreturns-petrol", Url: goodreturns.PetrolURL, Kind: Petrol, Extractor: "goodreturns", WaitSeconds: 2},
		{Name: "goodreturns-diesel", Url: goodreturns.DieselURL, Kind: Diesel, Extractor: "goodreturns", WaitSeconds: 2},
	}
}

// Fetcher retrieves raw page content for a source url. Implementations
// are expected to retry transient failures internally and give up with
// a *goodreturns.FetchError style recoverable error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Service struct {
	cfg     Config
	fetcher Fetcher
	store   Store
	aliases AliasTable
	archive *Archive
	alerter *Alerter
}

func NewService(cfg Config) (*Service, error) {
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	if cfg.Output == "" {
		cfg.Output = "prices.json"
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.RatioThreshold == 0 {
		cfg.RatioThreshold = 0.5
	}
	if cfg.MinCities == 0 {
		cfg.MinCities = 20
	}

	for _, src := range cfg.Sources {
		if _, ok := LookupExtractor(src.Extractor); !ok {
			return nil, fmt.Errorf("unknown extractor %q for source %q", src.Extractor, src.Name)
		}
		if src.Kind != Petrol && src.Kind != Diesel {
			return nil, fmt.Errorf("unknown fuel kind %q for source %q", src.Kind, src.Name)
		}
	}

	svc := &Service{
		cfg: cfg,
		fetcher: goodreturns.NewClient(goodreturns.ClientOptions{
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
			RetryCount: cfg.RetryCount,
		}),
		store:   NewStore(cfg.Output),
		aliases: LoadAliases(cfg.Aliases),
	}

	if cfg.Archive.Url != "" {
		archive, err := OpenArchive(cfg.Archive.Driver, cfg.Archive.Url)
		if err != nil {
			return nil, err
		}
		svc.archive = archive
	}
	if cfg.Smtp.Server != "" {
		alerter := NewAlerter(cfg.Smtp)
		svc.alerter = &alerter
	}

	return svc, nil
}

func (s *Service) Close() {
	if s.archive != nil {
		s.archive.Close()
	}
}

func (s *Service) Store() Store {
	return s.store
}

// Run executes one full pipeline pass: fetch and extract every
// configured source, normalize, validate against the baseline, build
// the snapshot and hand it to the persistence guard. Any fatal
// condition returns an error with the published file untouched.
func (s *Service) Run(ctx context.Context) (PersistResult, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	runID, err := random.String(8)
	if err != nil {
		return PersistResult{}, err
	}
	startedAt := timezone.Now()
	slog.Info("starting fuel price pipeline", "run_id", runID, "sources", len(s.cfg.Sources))

	prior, hasPrior, err := s.store.Load()
	if err != nil {
		slog.Warn("could not read prior snapshot, treating as absent", "run_id", runID, "err", err)
		hasPrior = false
	}

	byKind := map[Kind][]RawRecord{}
	for _, res := range s.collect(ctx) {
		if res.err != nil {
			var fetchErr *goodreturns.FetchError
			if errors.As(res.err, &fetchErr) {
				// one source failing to fetch reduces completeness,
				// it does not abort the sources that succeeded
				slog.Error(
					"source fetch failed, continuing without it",
					"run_id", runID,
					"source", res.src.Name,
					"url", res.src.Url,
					"err", res.err,
				)
				continue
			}
			return s.fail(ctx, runID, startedAt, PersistResult{}, res.err)
		}
		slog.Info(
			"extracted records",
			"run_id", runID,
			"source", res.src.Name,
			"kind", res.src.Kind,
			"count", len(res.records),
		)
		byKind[res.src.Kind] = append(byKind[res.src.Kind], res.records...)
	}

	entriesByKind := map[Kind][]PriceEntry{}
	for kind, records := range byKind {
		entriesByKind[kind] = Normalize(records, s.aliases)
	}

	for _, kind := range Kinds {
		baseline := s.cfg.MinCities
		if hasPrior && prior.Count(kind) > 0 {
			baseline = prior.Count(kind)
		}
		result := Validate(entriesByKind[kind], kind, baseline, s.cfg.RatioThreshold)
		slog.Info(
			"validated extraction",
			"run_id", runID,
			"kind", kind,
			"extracted", result.Extracted,
			"expected", result.Expected,
			"ratio", result.Ratio,
			"passed", result.Passed,
		)
		if !result.Passed {
			return s.fail(ctx, runID, startedAt, PersistResult{}, &ValidationError{
				Result:    result,
				Threshold: s.cfg.RatioThreshold,
			})
		}
	}

	snap := BuildSnapshot(entriesByKind, timezone.Now())

	var priorRef *Snapshot
	if hasPrior {
		priorRef = &prior
	}
	result, err := s.store.Commit(snap, priorRef)
	if err != nil {
		return s.fail(ctx, runID, startedAt, result, err)
	}

	s.record(ctx, RunRecord{
		RunID:       runID,
		StartedAt:   startedAt,
		Result:      result,
		PetrolCount: snap.Count(Petrol),
		DieselCount: snap.Count(Diesel),
	})

	slog.Info(
		"pipeline run complete",
		"run_id", runID,
		"written", result.Written,
		"reason", result.Reason,
		"petrol_entries", snap.Count(Petrol),
		"diesel_entries", snap.Count(Diesel),
		"sample", sampleEntry(snap),
		"last_updated_ist", snap.LastUpdatedIST,
	)
	return result, nil
}

func sampleEntry(snap Snapshot) string {
	for _, kind := range Kinds {
		if entries := snap.Entries(kind); len(entries) > 0 {
			return fmt.Sprintf("%s %s=%.2f", kind, entries[0].City, entries[0].Price)
		}
	}
	return ""
}

func (s *Service) fail(ctx context.Context, runID string, startedAt time.Time, result PersistResult, cause error) (PersistResult, error) {
	slog.Error(
		"pipeline run aborted, published snapshot untouched",
		"run_id", runID,
		"reason", result.Reason,
		"err", cause,
	)
	s.record(ctx, RunRecord{
		RunID:     runID,
		StartedAt: startedAt,
		Result:    result,
		Err:       cause,
	})
	if s.alerter != nil {
		if err := s.alerter.NotifyFailure(runID, cause); err != nil {
			slog.Error("failed to send failure alert", "run_id", runID, "err", err)
		}
	}
	return result, cause
}

func (s *Service) record(ctx context.Context, rec RunRecord) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Record(ctx, rec); err != nil {
		slog.Error("failed to archive run record", "run_id", rec.RunID, "err", err)
	}
}

type sourceResult struct {
	src     SourceConfig
	records []RawRecord
	err     error
}

// collect fetches and extracts every source with bounded concurrency:
// one goroutine per source, requests to the same host spaced out by the
// source's wait time. A failure in one source's branch never cancels
// another's.
func (s *Service) collect(ctx context.Context) []sourceResult {
	gates := map[string]*hostGate{}
	for _, src := range s.cfg.Sources {
		host := hostOf(src.Url)
		if _, ok := gates[host]; !ok {
			gates[host] = &hostGate{}
		}
	}

	results := make([]sourceResult, len(s.cfg.Sources))
	var wg sync.WaitGroup
	for i, src := range s.cfg.Sources {
		wg.Add(1)
		go func(i int, src SourceConfig) {
			defer wg.Done()
			results[i].src = src

			gates[hostOf(src.Url)].wait(time.Duration(src.WaitSeconds) * time.Second)

			content, err := s.fetcher.Fetch(ctx, src.Url)
			if err != nil {
				results[i].err = err
				return
			}

			extractor, ok := LookupExtractor(src.Extractor)
			if !ok {
				results[i].err = fmt.Errorf("unknown extractor %q", src.Extractor)
				return
			}
			records, err := extractor.Extract(ctx, content, src.Kind)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].records = records
		}(i, src)
	}
	wg.Wait()
	return results
}

func hostOf(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl
	}
	return u.Host
}

// hostGate spaces out requests hitting the same host, the aggregator
// locks out clients that hammer it.
type hostGate struct {
	mu   sync.Mutex
	last time.Time
}

func (g *hostGate) wait(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.last.IsZero() && d > 0 {
		if rest := d - time.Since(g.last); rest > 0 {
			time.Sleep(rest)
		}
	}
	g.last = time.Now()
}
