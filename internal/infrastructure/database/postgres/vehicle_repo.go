package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// upsertBatchSize bounds the number of rows per INSERT statement during a
// roster import.
const upsertBatchSize = 500

// VehicleRepo stores the plate roster.
type VehicleRepo struct {
	db     *sql.DB
	logger logging.Logger
}

// NewVehicleRepo builds the repository over an open connection.
func NewVehicleRepo(conn *Connection, log logging.Logger) *VehicleRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &VehicleRepo{db: conn.DB(), logger: log.Named("vehicle-repo")}
}

// GetByPlate fetches one record by normalized plate.  A missing plate is a
// not-found error, distinguishable from transport failures by its code.
func (r *VehicleRepo) GetByPlate(ctx context.Context, plate string) (*vehicle.Record, error) {
	const q = `
		SELECT plate, make, model, year, updated_at
		FROM vehicles
		WHERE plate = $1`

	var rec vehicle.Record
	var year sql.NullString
	err := r.db.QueryRowContext(ctx, q, plate).Scan(
		&rec.Plate, &rec.Make, &rec.Model, &year, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodePlateNotFound,
			fmt.Sprintf("plate %s not in roster", plate))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query vehicle by plate")
	}
	rec.Year = year.String
	return &rec, nil
}

// UpsertBatch writes records in chunks, newest-wins on plate conflicts.
// Records must already be normalized; sourceFile labels the roster file the
// rows came from.
func (r *VehicleRepo) UpsertBatch(ctx context.Context, records []vehicle.Record, sourceFile string) (int, error) {
	written := 0
	now := time.Now().UTC()

	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		query, args := buildUpsertQuery(chunk, sourceFile, now)
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return written, errors.Wrap(err, errors.ErrCodeDatabaseError,
				fmt.Sprintf("upsert vehicles batch at offset %d", start))
		}
		written += len(chunk)
	}

	r.logger.Info("roster batch stored",
		logging.Int("records", written),
		logging.String("source_file", sourceFile))
	return written, nil
}

// buildUpsertQuery renders one multi-row INSERT ... ON CONFLICT statement.
func buildUpsertQuery(records []vehicle.Record, sourceFile string, now time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO vehicles (plate, make, model, year, source_file, updated_at) VALUES `)

	args := make([]any, 0, len(records)*6)
	for i, rec := range records {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, rec.Plate, rec.Make, rec.Model, rec.Year, sourceFile, now)
	}

	b.WriteString(` ON CONFLICT (plate) DO UPDATE SET
		make = EXCLUDED.make,
		model = EXCLUDED.model,
		year = EXCLUDED.year,
		source_file = EXCLUDED.source_file,
		updated_at = EXCLUDED.updated_at`)

	return b.String(), args
}

// Count reports the roster size.
func (r *VehicleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vehicles`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count vehicles")
	}
	return n, nil
}
