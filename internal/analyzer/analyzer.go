package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/config"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/db"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/extract"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/logger"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"

	"github.com/rs/zerolog"
)

// Analyzer runs the duplicate-detection passes over the accumulated record
// set. It always reads committed data from the store, so a concurrent upload
// either shows up whole or not at all. Output is deterministic for a fixed
// record set: clusters in first-appearance order, members in insertion
// order.
type Analyzer struct {
	repo db.Repository
	cfg  config.AnalysisConfig
	log  zerolog.Logger
}

func New(repo db.Repository, cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{
		repo: repo,
		cfg:  cfg,
		log:  logger.Component("analyzer"),
	}
}

// Analyze produces the report bundle. A nil fileID spans every ingested
// file — duplicates are a cross-file phenomenon; the scoped form exists for
// per-upload inspection.
func (a *Analyzer) Analyze(ctx context.Context, fileID *int64) (*model.ReportBundle, error) {
	keyed, err := a.repo.RecordsWithOrderAndAddress(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyed records: %w", err)
	}
	addressed, err := a.repo.RecordsWithAddress(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addressed records: %w", err)
	}
	problematicCount, err := a.repo.CountProblematic(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to count problematic records: %w", err)
	}

	bundle := &model.ReportBundle{
		FileID:           fileID,
		HardDuplicates:   []model.DuplicateGroup{},
		Combos:           []model.ComboGroup{},
		ReviewCandidates: []model.ReviewGroup{},
		AddressConflicts: []model.AddressConflict{},
		ProblematicCount: problematicCount,
		GeneratedAt:      time.Now(),
	}

	a.clusterByOrderAndAddress(keyed, bundle)
	a.clusterByAddress(addressed, bundle)
	a.clusterByOrder(keyed, bundle)

	a.log.Info().
		Int("records", len(keyed)).
		Int("clusters", bundle.TotalClusters).
		Int("hard_duplicates", bundle.HardDuplicateCount).
		Int("combos", bundle.ComboCount).
		Int("review_candidates", bundle.ReviewCount).
		Int("address_conflicts", bundle.AddressConflictCount).
		Msg("Analysis complete")

	return bundle, nil
}

// clusterByOrderAndAddress is the primary pass: records sharing both the
// order key and the address key form a cluster. Work-type sub-groups of two
// or more are hard duplicates; a diagnostic or inspection next to an
// installation is a combo.
func (a *Analyzer) clusterByOrderAndAddress(records []model.Record, bundle *model.ReportBundle) {
	idx := newClusterIndex()
	for _, rec := range records {
		idx.add(orderKey(rec)+"\x1f"+a.addressKey(rec), rec)
	}

	for _, members := range idx.clusters() {
		if len(members) < 2 {
			continue
		}
		bundle.TotalClusters++

		byType := newClusterIndex()
		hasPrework, hasInstall := false, false
		for _, rec := range members {
			byType.add(string(rec.WorkType), rec)
			switch rec.WorkType {
			case model.WorkTypeDiagnostic, model.WorkTypeInspection:
				hasPrework = true
			case model.WorkTypeInstallation:
				hasInstall = true
			}
		}

		for _, group := range byType.clusters() {
			if len(group) < 2 {
				continue
			}
			bundle.HardDuplicateCount++
			if len(bundle.HardDuplicates) < a.cfg.SampleLimit {
				bundle.HardDuplicates = append(bundle.HardDuplicates, model.DuplicateGroup{
					OrderNumber: deref(group[0].OrderNumber),
					Address:     deref(group[0].Address),
					WorkType:    group[0].WorkType,
					Records:     group,
				})
			}
		}

		if hasPrework && hasInstall {
			bundle.ComboCount++
			if len(bundle.Combos) < a.cfg.SampleLimit {
				bundle.Combos = append(bundle.Combos, model.ComboGroup{
					OrderNumber: deref(members[0].OrderNumber),
					Address:     deref(members[0].Address),
					Records:     members,
				})
			}
		}
	}
}

// clusterByAddress is the near-duplicate pass: the order number is ignored
// so a data-entry slip in it cannot hide a repeated payout at one address.
// Clusters that are already a plain single-order, single-type hard duplicate
// are not re-reported here.
func (a *Analyzer) clusterByAddress(records []model.Record, bundle *model.ReportBundle) {
	idx := newClusterIndex()
	for _, rec := range records {
		idx.add(a.addressKey(rec), rec)
	}

	for _, members := range idx.clusters() {
		if len(members) < 2 || isUniformOrderAndType(members) {
			continue
		}
		bundle.ReviewCount++
		if len(bundle.ReviewCandidates) < a.cfg.SampleLimit {
			bundle.ReviewCandidates = append(bundle.ReviewCandidates, model.ReviewGroup{
				Address: deref(members[0].Address),
				Records: members,
			})
		}
	}
}

// clusterByOrder is the data-quality pass: one order number appearing with
// conflicting addresses.
func (a *Analyzer) clusterByOrder(records []model.Record, bundle *model.ReportBundle) {
	idx := newClusterIndex()
	for _, rec := range records {
		idx.add(orderKey(rec), rec)
	}

	for _, members := range idx.clusters() {
		if len(members) < 2 {
			continue
		}

		seen := map[string]bool{}
		var addresses []string
		for _, rec := range members {
			key := a.addressKey(rec)
			if !seen[key] {
				seen[key] = true
				addresses = append(addresses, deref(rec.Address))
			}
		}
		if len(addresses) < 2 {
			continue
		}

		bundle.AddressConflictCount++
		if len(bundle.AddressConflicts) < a.cfg.SampleLimit {
			bundle.AddressConflicts = append(bundle.AddressConflicts, model.AddressConflict{
				OrderNumber: deref(members[0].OrderNumber),
				Addresses:   addresses,
				Records:     members,
			})
		}
	}
}

func orderKey(rec model.Record) string {
	return strings.ToUpper(strings.TrimSpace(deref(rec.OrderNumber)))
}

func (a *Analyzer) addressKey(rec model.Record) string {
	addr := deref(rec.Address)
	if a.cfg.NormalizeAddressKeys == nil || *a.cfg.NormalizeAddressKeys {
		return extract.Normalize(addr)
	}
	return addr
}

// isUniformOrderAndType reports whether every member shares one non-empty
// order key and one work type — the shape already covered by the primary
// pass.
func isUniformOrderAndType(members []model.Record) bool {
	first := orderKey(members[0])
	if first == "" {
		return false
	}
	for _, rec := range members[1:] {
		if orderKey(rec) != first || rec.WorkType != members[0].WorkType {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// clusterIndex groups records by key while remembering first-appearance
// order, so iteration over clusters is stable for a fixed input.
type clusterIndex struct {
	keys  []string
	byKey map[string][]model.Record
}

func newClusterIndex() *clusterIndex {
	return &clusterIndex{byKey: map[string][]model.Record{}}
}

func (ci *clusterIndex) add(key string, rec model.Record) {
	if _, ok := ci.byKey[key]; !ok {
		ci.keys = append(ci.keys, key)
	}
	ci.byKey[key] = append(ci.byKey[key], rec)
}

func (ci *clusterIndex) clusters() [][]model.Record {
	out := make([][]model.Record, 0, len(ci.keys))
	for _, key := range ci.keys {
		out = append(out, ci.byKey[key])
	}
	return out
}
