package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pubmap/areas-backend-go/internal/models"
)

// Page size for full-store fetches, matching the upstream export batches
const fetchPageSize = 750

// VenueRepository handles database operations for venues
type VenueRepository struct {
	db *sql.DB
}

// NewVenueRepository creates a new venue repository
func NewVenueRepository(db *sql.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `id, name, address, area, borough, ownership, lat, lon, created_at, updated_at`

func scanVenue(rows *sql.Rows) (*models.Venue, error) {
	var (
		v                                   models.Venue
		address, area, borough, ownership   sql.NullString
		lat, lon                            sql.NullFloat64
	)
	err := rows.Scan(&v.ID, &v.Name, &address, &area, &borough, &ownership,
		&lat, &lon, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan venue: %w", err)
	}

	v.Address = address.String
	v.Area = area.String
	v.Borough = borough.String
	v.Ownership = ownership.String
	if lat.Valid {
		v.Lat = &lat.Float64
	}
	if lon.Valid {
		v.Lon = &lon.Float64
	}
	return &v, nil
}

// FetchAllVenues retrieves every venue using pagination, in stable id order.
// On a mid-pagination failure it returns the venues collected so far together
// with the error, so callers can apply a partial-result policy.
func (r *VenueRepository) FetchAllVenues(ctx context.Context) ([]*models.Venue, error) {
	var venues []*models.Venue
	offset := 0

	for {
		query := fmt.Sprintf(`SELECT %s FROM venues ORDER BY id LIMIT ? OFFSET ?`, venueColumns)
		rows, err := r.db.QueryContext(ctx, query, fetchPageSize, offset)
		if err != nil {
			return venues, fmt.Errorf("failed to query venues at offset %d: %w", offset, err)
		}

		count := 0
		for rows.Next() {
			v, err := scanVenue(rows)
			if err != nil {
				rows.Close()
				return venues, err
			}
			venues = append(venues, v)
			count++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return venues, fmt.Errorf("failed to read venues at offset %d: %w", offset, err)
		}
		rows.Close()

		// An empty or short page means end of data
		if count < fetchPageSize {
			break
		}
		offset += fetchPageSize
	}

	return venues, nil
}

// UpdateVenue applies a partial field update to one venue. Borough is only
// written when the update carries one.
func (r *VenueRepository) UpdateVenue(ctx context.Context, id string, update models.VenueUpdate) error {
	query := `UPDATE venues SET area = ?, updated_at = datetime('now')`
	args := []interface{}{update.Area}

	if update.Borough != nil {
		query += `, borough = ?`
		args = append(args, *update.Borough)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update venue %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of venue %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("venue %s not found", id)
	}
	return nil
}

// GetVenues retrieves venues with filtering and pagination
func (r *VenueRepository) GetVenues(filter models.VenueFilter) ([]*models.Venue, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Area != "" {
		conditions = append(conditions, "area = ?")
		args = append(args, filter.Area)
	}
	if filter.Borough != "" {
		conditions = append(conditions, "borough = ?")
		args = append(args, filter.Borough)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM venues"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := fmt.Sprintf(`SELECT %s FROM venues%s ORDER BY name LIMIT ? OFFSET ?`, venueColumns, where)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []*models.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
	}

	return venues, total, nil
}

// GetVenueByID retrieves a single venue by ID
func (r *VenueRepository) GetVenueByID(id string) (*models.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id = ?`, venueColumns)

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	return scanVenue(rows)
}

// CreateVenue inserts a new venue record
func (r *VenueRepository) CreateVenue(v *models.Venue) error {
	query := `
		INSERT INTO venues (id, name, address, area, borough, ownership, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, v.ID, v.Name, v.Address, v.Area, v.Borough, v.Ownership, v.Lat, v.Lon)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}
