package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
)

const rosterHeader = "COD_PRT,PPU,COD_VEHICULO,COD_COMBUSTIBLE,COD_SERVICIO,MARCA,MODELO,ANO_FABRICACION\n"

func TestParseRoster(t *testing.T) {
	csvData := rosterHeader +
		"101,bbcl23,1,2,3,TOYOTA,YARIS,2019\n" +
		"102, hjkl89 ,1,2,3,KIA,RIO,2021\n" +
		"103,,1,2,3,FORD,RANGER,2020\n" + // no plate, skipped
		"104,BBCL23,1,2,3,TOYOTA,COROLLA,2018\n" + // duplicate, first wins
		"105,short,row\n" // wrong column count, skipped

	records, err := ParseRoster(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, vehicle.Record{Plate: "BBCL23", Make: "TOYOTA", Model: "YARIS", Year: "2019"}, records[0])
	assert.Equal(t, vehicle.Record{Plate: "HJKL89", Make: "KIA", Model: "RIO", Year: "2021"}, records[1])
}

func TestParseRosterEmptyFile(t *testing.T) {
	records, err := ParseRoster(strings.NewReader(rosterHeader))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRosterDateKey(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"SGPRT_RB_oct-2025.csv", 202510},
		{"SGPRT_RB_ene-2026.csv", 202601},
		{"sgprt_rb_dic_2025.csv", 202512},
		{"SGPRT_sindato.csv", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rosterDateKey(tt.name), tt.name)
	}
}

func TestSortRosterFiles(t *testing.T) {
	got := SortRosterFiles([]string{
		"SGPRT_RB_ene-2026.csv",
		"SGPRT_RB_oct-2025.csv",
		"SGPRT_RB_dic-2025.csv",
	})
	assert.Equal(t, []string{
		"SGPRT_RB_oct-2025.csv",
		"SGPRT_RB_dic-2025.csv",
		"SGPRT_RB_ene-2026.csv",
	}, got)
}

type recordingStore struct {
	batches []string
	plates  map[string]vehicle.Record
}

func (s *recordingStore) UpsertBatch(_ context.Context, records []vehicle.Record, sourceFile string) (int, error) {
	s.batches = append(s.batches, sourceFile)
	if s.plates == nil {
		s.plates = make(map[string]vehicle.Record)
	}
	for _, r := range records {
		s.plates[r.Plate] = r
	}
	return len(records), nil
}

func TestImportDirNewestWins(t *testing.T) {
	dir := t.TempDir()

	older := rosterHeader + "1,BBCL23,1,2,3,TOYOTA,YARIS,2019\n"
	newer := rosterHeader + "1,BBCL23,1,2,3,TOYOTA,YARIS SPORT,2019\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SGPRT_RB_ene-2026.csv"), []byte(newer), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SGPRT_RB_oct-2025.csv"), []byte(older), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	store := &recordingStore{}
	im := NewImporter(store, logging.NewNopLogger())

	total, err := im.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"SGPRT_RB_oct-2025.csv", "SGPRT_RB_ene-2026.csv"}, store.batches)
	assert.Equal(t, "YARIS SPORT", store.plates["BBCL23"].Model)
}

func TestImportDirNoFiles(t *testing.T) {
	im := NewImporter(&recordingStore{}, logging.NewNopLogger())
	_, err := im.ImportDir(context.Background(), t.TempDir())
	require.Error(t, err)
}
