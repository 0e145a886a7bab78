package analyzer

import (
	"context"
	"testing"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/config"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo serves preloaded records to the analyzer.
type fakeRepo struct {
	records []model.Record
}

func (f *fakeRepo) InsertFileWithRecords(_ context.Context, _ string, _ []model.Record) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) GetFile(_ context.Context, _ int64) (*model.File, error) { return nil, nil }

func (f *fakeRepo) ListFiles(_ context.Context) ([]model.File, error) { return nil, nil }

func (f *fakeRepo) DeleteFile(_ context.Context, _ int64) error { return nil }

func (f *fakeRepo) RecordsForFile(_ context.Context, _ int64) ([]model.Record, error) {
	return nil, nil
}

func (f *fakeRepo) RecordsWithOrderAndAddress(_ context.Context, fileID *int64) ([]model.Record, error) {
	return f.filter(fileID, func(r model.Record) bool {
		return r.OrderNumber != nil && r.Address != nil
	}), nil
}

func (f *fakeRepo) RecordsWithAddress(_ context.Context, fileID *int64) ([]model.Record, error) {
	return f.filter(fileID, func(r model.Record) bool { return r.Address != nil }), nil
}

func (f *fakeRepo) ProblematicRecords(_ context.Context, fileID *int64) ([]model.Record, error) {
	return f.filter(fileID, func(r model.Record) bool { return r.IsProblematic }), nil
}

func (f *fakeRepo) CountProblematic(_ context.Context, fileID *int64) (int, error) {
	return len(f.filter(fileID, func(r model.Record) bool { return r.IsProblematic })), nil
}

func (f *fakeRepo) Reset(_ context.Context) error { return nil }

func (f *fakeRepo) filter(fileID *int64, keep func(model.Record) bool) []model.Record {
	var out []model.Record
	for _, rec := range f.records {
		if fileID != nil && rec.FileID != *fileID {
			continue
		}
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func rec(id int64, order, address string, workType model.WorkType) model.Record {
	r := model.Record{ID: id, FileID: 1, WorkType: workType}
	if order != "" {
		r.OrderNumber = &order
	}
	if address != "" {
		r.Address = &address
	}
	return r
}

func analyze(t *testing.T, records []model.Record) *model.ReportBundle {
	t.Helper()
	a := New(&fakeRepo{records: records}, config.DefaultAnalysis())
	bundle, err := a.Analyze(context.Background(), nil)
	require.NoError(t, err)
	return bundle
}

func TestAnalyzeHardDuplicate(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "MO, Dmitrovsky district, village X", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "mo,  dmitrovsky  district, village x", model.WorkTypeInstallation),
	})

	assert.Equal(t, 1, bundle.TotalClusters)
	assert.Equal(t, 1, bundle.HardDuplicateCount)
	require.Len(t, bundle.HardDuplicates, 1)

	group := bundle.HardDuplicates[0]
	assert.Equal(t, "KAUT-001410", group.OrderNumber)
	assert.Equal(t, model.WorkTypeInstallation, group.WorkType)
	require.Len(t, group.Records, 2)
	assert.Equal(t, int64(1), group.Records[0].ID)
	assert.Equal(t, int64(2), group.Records[1].ID)

	assert.Equal(t, 0, bundle.ComboCount)
}

func TestAnalyzeOrderKeyNormalization(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "kaut-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, " KAUT-001410 ", "ул. Садовая 10", model.WorkTypeInstallation),
	})

	assert.Equal(t, 1, bundle.HardDuplicateCount)
}

func TestAnalyzeCombo(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "деревня Х", model.WorkTypeDiagnostic),
		rec(2, "KAUT-001410", "деревня Х", model.WorkTypeInstallation),
	})

	assert.Equal(t, 1, bundle.TotalClusters)
	assert.Equal(t, 0, bundle.HardDuplicateCount)
	assert.Equal(t, 1, bundle.ComboCount)
	require.Len(t, bundle.Combos, 1)
	assert.Len(t, bundle.Combos[0].Records, 2)
}

func TestAnalyzeInspectionCombo(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "деревня Х", model.WorkTypeInspection),
		rec(2, "KAUT-001410", "деревня Х", model.WorkTypeInstallation),
	})

	assert.Equal(t, 1, bundle.ComboCount)
}

func TestAnalyzeDifferentAddressesDoNotCluster(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "ул. Лесная 2", model.WorkTypeInstallation),
	})

	assert.Equal(t, 0, bundle.TotalClusters)
	assert.Equal(t, 0, bundle.HardDuplicateCount)

	// Same order with conflicting addresses is the data-quality signal.
	assert.Equal(t, 1, bundle.AddressConflictCount)
	require.Len(t, bundle.AddressConflicts, 1)
	assert.Equal(t, "KAUT-001410", bundle.AddressConflicts[0].OrderNumber)
	assert.Len(t, bundle.AddressConflicts[0].Addresses, 2)
}

func TestAnalyzeReviewCandidates(t *testing.T) {
	// Same address under two order numbers: hidden near-duplicate.
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001411", "ул. Садовая 10", model.WorkTypeInstallation),
	})

	assert.Equal(t, 0, bundle.HardDuplicateCount)
	assert.Equal(t, 1, bundle.ReviewCount)
	require.Len(t, bundle.ReviewCandidates, 1)
	assert.Len(t, bundle.ReviewCandidates[0].Records, 2)
}

func TestAnalyzeReviewSkipsPlainHardDuplicates(t *testing.T) {
	bundle := analyze(t, []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
	})

	assert.Equal(t, 1, bundle.HardDuplicateCount)
	assert.Equal(t, 0, bundle.ReviewCount)
}

func TestAnalyzeInputOrderDoesNotChangeMembership(t *testing.T) {
	records := []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001411", "ул. Лесная 2", model.WorkTypeDiagnostic),
		rec(3, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(4, "KAUT-001411", "ул. Лесная 2", model.WorkTypeInstallation),
	}
	reversed := []model.Record{records[3], records[2], records[1], records[0]}

	forward := analyze(t, records)
	backward := analyze(t, reversed)

	assert.Equal(t, forward.TotalClusters, backward.TotalClusters)
	assert.Equal(t, forward.HardDuplicateCount, backward.HardDuplicateCount)
	assert.Equal(t, forward.ComboCount, backward.ComboCount)
	assert.Equal(t, forward.ReviewCount, backward.ReviewCount)
	assert.Equal(t, forward.AddressConflictCount, backward.AddressConflictCount)

	memberIDs := func(b *model.ReportBundle) map[int64]bool {
		ids := map[int64]bool{}
		for _, g := range b.HardDuplicates {
			for _, r := range g.Records {
				ids[r.ID] = true
			}
		}
		return ids
	}
	assert.Equal(t, memberIDs(forward), memberIDs(backward))
}

func TestAnalyzeDeterministic(t *testing.T) {
	records := []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(3, "KAUT-001411", "ул. Лесная 2", model.WorkTypeDiagnostic),
		rec(4, "KAUT-001411", "ул. Лесная 2", model.WorkTypeDiagnostic),
	}

	first := analyze(t, records)
	second := analyze(t, records)

	require.Len(t, first.HardDuplicates, 2)
	for i := range first.HardDuplicates {
		assert.Equal(t, first.HardDuplicates[i].OrderNumber, second.HardDuplicates[i].OrderNumber)
		assert.Equal(t, first.HardDuplicates[i].Records, second.HardDuplicates[i].Records)
	}
}

func TestAnalyzeSampleCap(t *testing.T) {
	cfg := config.DefaultAnalysis()
	cfg.SampleLimit = 2

	var records []model.Record
	orders := []string{"KAUT-001410", "KAUT-001411", "KAUT-001412"}
	for i, order := range orders {
		records = append(records,
			rec(int64(i*2+1), order, "ул. Садовая 10, корпус "+order, model.WorkTypeInstallation),
			rec(int64(i*2+2), order, "ул. Садовая 10, корпус "+order, model.WorkTypeInstallation),
		)
	}

	a := New(&fakeRepo{records: records}, cfg)
	bundle, err := a.Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, bundle.HardDuplicateCount)
	assert.Len(t, bundle.HardDuplicates, 2)
}

func TestAnalyzeRawAddressComparison(t *testing.T) {
	cfg := config.DefaultAnalysis()
	raw := false
	cfg.NormalizeAddressKeys = &raw

	a := New(&fakeRepo{records: []model.Record{
		rec(1, "KAUT-001410", "Ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "ул. садовая 10", model.WorkTypeInstallation),
	}}, cfg)

	bundle, err := a.Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, bundle.TotalClusters)
	assert.Equal(t, 0, bundle.HardDuplicateCount)
}

func TestAnalyzeProblematicCount(t *testing.T) {
	problem := rec(1, "", "", model.WorkTypeOther)
	problem.IsProblematic = true

	bundle := analyze(t, []model.Record{problem})

	assert.Equal(t, 1, bundle.ProblematicCount)
	assert.Equal(t, 0, bundle.TotalClusters)
}

func TestAnalyzeFileScope(t *testing.T) {
	other := rec(3, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation)
	other.FileID = 2

	records := []model.Record{
		rec(1, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		rec(2, "KAUT-001410", "ул. Садовая 10", model.WorkTypeInstallation),
		other,
	}

	a := New(&fakeRepo{records: records}, config.DefaultAnalysis())

	all, err := a.Analyze(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all.HardDuplicates, 1)
	assert.Len(t, all.HardDuplicates[0].Records, 3)

	fileID := int64(2)
	scoped, err := a.Analyze(context.Background(), &fileID)
	require.NoError(t, err)
	assert.Equal(t, 0, scoped.HardDuplicateCount)
}
