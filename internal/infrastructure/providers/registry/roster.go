package registry

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Roster CSV layout, exported monthly:
// COD_PRT, PPU, COD_VEHICULO, COD_COMBUSTIBLE, COD_SERVICIO, MARCA, MODELO, ANO_FABRICACION
const (
	rosterColumns   = 8
	colPlate        = 1
	colMake         = 5
	colModel        = 6
	colYear         = 7
	rosterPrefix    = "SGPRT"
	rosterExtension = ".csv"
)

// spanishMonths maps the month abbreviations used in roster file names.
var spanishMonths = map[string]int{
	"ene": 1, "feb": 2, "mar": 3, "abr": 4, "may": 5, "jun": 6,
	"jul": 7, "ago": 8, "sep": 9, "oct": 10, "nov": 11, "dic": 12,
}

var rosterDatePattern = regexp.MustCompile(
	`[_-](ene|feb|mar|abr|may|jun|jul|ago|sep|oct|nov|dic)[_-](\d{4})`)

// rosterDateKey extracts a sortable year*100+month key from a roster file
// name such as "SGPRT_RB_oct-2025.csv".  Files without a recognizable date
// sort first.
func rosterDateKey(filename string) int {
	m := rosterDatePattern.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return 0
	}
	year := 0
	for _, ch := range m[2] {
		year = year*10 + int(ch-'0')
	}
	return year*100 + spanishMonths[m[1]]
}

// SortRosterFiles orders roster file names oldest first, so that importing
// them in order leaves the newest data in place.
func SortRosterFiles(filenames []string) []string {
	out := make([]string, len(filenames))
	copy(out, filenames)
	sort.SliceStable(out, func(i, j int) bool {
		return rosterDateKey(out[i]) < rosterDateKey(out[j])
	})
	return out
}

// ParseRoster reads one roster CSV.  Rows with an empty plate or the wrong
// column count are skipped; duplicate plates within one file keep the first
// occurrence.
func ParseRoster(r io.Reader) ([]vehicle.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	seen := make(map[string]struct{})
	var records []vehicle.Record
	header := true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "read roster csv")
		}
		if header {
			header = false
			continue
		}
		if len(row) < rosterColumns {
			continue
		}

		plate := vehicle.NormalizePlate(row[colPlate])
		if plate == "" {
			continue
		}
		if _, dup := seen[plate]; dup {
			continue
		}
		seen[plate] = struct{}{}

		records = append(records, vehicle.Record{
			Plate: plate,
			Make:  strings.TrimSpace(row[colMake]),
			Model: strings.TrimSpace(row[colModel]),
			Year:  strings.TrimSpace(row[colYear]),
		})
	}

	return records, nil
}

// UpsertStore is the persistence surface the importer writes to.
type UpsertStore interface {
	UpsertBatch(ctx context.Context, records []vehicle.Record, sourceFile string) (int, error)
}

// Importer loads roster files into a store.
type Importer struct {
	store  UpsertStore
	logger logging.Logger
}

// NewImporter builds an Importer.
func NewImporter(store UpsertStore, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Importer{store: store, logger: logger.Named("roster-import")}
}

// ImportDir imports every roster CSV under dir, oldest file first so the
// newest roster wins conflicting plates.  It returns the total records
// written.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "read roster directory")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, rosterPrefix) && strings.HasSuffix(name, rosterExtension) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return 0, errors.NotFound("no roster files in directory")
	}

	total := 0
	for _, name := range SortRosterFiles(names) {
		n, err := im.importFile(ctx, filepath.Join(dir, name), name)
		if err != nil {
			return total, err
		}
		total += n
	}

	im.logger.Info("roster import finished",
		logging.Int("files", len(names)),
		logging.Int("records", total))
	return total, nil
}

func (im *Importer) importFile(ctx context.Context, path, name string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "open roster file")
	}
	defer f.Close()

	records, err := ParseRoster(f)
	if err != nil {
		return 0, err
	}

	im.logger.Info("importing roster file",
		logging.String("file", name),
		logging.Int("records", len(records)))
	return im.store.UpsertBatch(ctx, records, name)
}
