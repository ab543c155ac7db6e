package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/config"
	"github.com/ketjandr/nasa-spaceapps-project/internal/db/sqlite"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	logpkg "github.com/ketjandr/nasa-spaceapps-project/internal/logger"
	"github.com/ketjandr/nasa-spaceapps-project/internal/metrics"
	catalogrepo "github.com/ketjandr/nasa-spaceapps-project/internal/repository/catalog"
)

// loadBatchSize is how many descriptions go to the embedding provider per call.
const loadBatchSize = 64

var (
	loadFile          string
	computeEmbeddings bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk import feature records into the catalog",
	Long: `Load reads a JSON array of nomenclature records and upserts them into
the catalog database. With --compute-embeddings each record's searchable
text is vectorized through the configured embedding provider first.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return runLoad(cfg)
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "JSON file with feature records")
	loadCmd.Flags().BoolVar(&computeEmbeddings, "compute-embeddings", false, "vectorize each record before storing")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}

// loadRecord accepts the two record shapes in circulation: the KMZ parser
// output (name/body/lat/lon/diameter_km) and the gazetteer export
// (feature_name/target/center_lat/center_lon/diameter). Pointers keep
// "absent" distinguishable from zero for coordinates.
type loadRecord struct {
	Name         string   `json:"name"`
	FeatureName  string   `json:"feature_name"`
	Body         string   `json:"body"`
	Target       string   `json:"target"`
	Category     string   `json:"category"`
	Lat          *float64 `json:"lat"`
	CenterLat    *float64 `json:"center_lat"`
	Lon          *float64 `json:"lon"`
	CenterLon    *float64 `json:"center_lon"`
	DiameterKM   float64  `json:"diameter_km"`
	Diameter     float64  `json:"diameter"`
	Origin       string   `json:"origin"`
	ApprovalDate string   `json:"approval_date"`
}

func (r loadRecord) feature() (domain.Feature, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.FeatureName)
	}
	if name == "" {
		return domain.Feature{}, fmt.Errorf("record has no name")
	}

	rawBody := strings.TrimSpace(r.Body)
	if rawBody == "" {
		rawBody = strings.TrimSpace(r.Target)
	}
	if b, ok := body.Canonical(rawBody); ok {
		rawBody = b.String()
	}

	f := domain.Feature{
		Name:         name,
		Body:         rawBody,
		Category:     strings.TrimSpace(r.Category),
		DiameterKM:   r.DiameterKM,
		Origin:       strings.TrimSpace(r.Origin),
		ApprovalDate: strings.TrimSpace(r.ApprovalDate),
	}
	if f.DiameterKM == 0 {
		f.DiameterKM = r.Diameter
	}
	switch {
	case r.Lat != nil:
		f.Latitude = *r.Lat
	case r.CenterLat != nil:
		f.Latitude = *r.CenterLat
	}
	switch {
	case r.Lon != nil:
		f.Longitude = *r.Lon
	case r.CenterLon != nil:
		f.Longitude = *r.CenterLon
	}

	f.Description = f.SearchableText()
	return f, nil
}

func runLoad(cfg config.Config) error {
	logger, err := logpkg.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(loadFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", loadFile, err)
	}
	var records []loadRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parse %s: %w", loadFile, err)
	}

	features := make([]domain.Feature, 0, len(records))
	skipped := 0
	for _, rec := range records {
		f, err := rec.feature()
		if err != nil {
			skipped++
			continue
		}
		features = append(features, f)
	}
	logger.Info("Parsed feature records",
		zap.String("file", loadFile),
		zap.Int("features", len(features)),
		zap.Int("skipped", skipped),
	)

	ctx := context.Background()

	if computeEmbeddings {
		// Ingestion wants real errors, so no fail-soft wrapper here.
		metrics.RegisterEmbeddingMetrics()
		embedder, _ := buildEmbedder(cfg, nil, logger)
		for start := 0; start < len(features); start += loadBatchSize {
			end := min(start+loadBatchSize, len(features))
			texts := make([]string, 0, end-start)
			for i := start; i < end; i++ {
				texts = append(texts, features[i].Description)
			}
			res, err := embedder.BatchEmbed(ctx, texts)
			if err != nil {
				return fmt.Errorf("embed batch at offset %d: %w", start, err)
			}
			if len(res.Embeddings) != len(texts) {
				return fmt.Errorf("embed batch at offset %d: got %d vectors for %d texts", start, len(res.Embeddings), len(texts))
			}
			for i, vec := range res.Embeddings {
				features[start+i].Embedding = vec
			}
			logger.Info("Embedded batch",
				zap.Int("offset", start),
				zap.Int("size", len(texts)),
				zap.Int("total_tokens", res.TotalTokens),
			)
		}
	}

	conn, err := sqlite.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("open catalog %s: %w", cfg.Catalog.Path, err)
	}
	defer func() { _ = conn.Close() }()

	repo := catalogrepo.New(conn)
	n, err := repo.BulkUpsert(ctx, features)
	if err != nil {
		return fmt.Errorf("upsert features: %w", err)
	}

	logger.Info("Catalog load complete",
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Int("loaded", n),
		zap.Int("skipped", skipped),
		zap.Bool("embeddings", computeEmbeddings),
	)
	return nil
}
