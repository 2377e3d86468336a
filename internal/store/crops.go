package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Crop is a farming record owned by exactly one FARMER principal.
type Crop struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Type         string     `db:"type"`
	Quantity     int        `db:"quantity"`
	PlantingDate time.Time  `db:"planting_date"`
	HarvestDate  *time.Time `db:"harvest_date"`
	Description  *string    `db:"description"`
	Status       string     `db:"status"`
	FarmerID     string     `db:"farmer_id"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// CropFilter narrows and pages a crop listing. FarmerID is mandatory for
// FARMER callers (scope filter) and optional for admins.
type CropFilter struct {
	FarmerID string
	Type     string
	Status   string
	Page     int
	Limit    int
}

// CropStats summarizes crops, optionally scoped to a single farmer.
type CropStats struct {
	Total         int `db:"total"`
	TotalQuantity int `db:"total_quantity"`
	Planted       int `db:"planted"`
	Harvested     int `db:"harvested"`
	Sold          int `db:"sold"`
}

// TypeCount is a crop count bucketed by type.
type TypeCount struct {
	Type  string `db:"type"`
	Count int    `db:"count"`
}

// LocationCount is a crop count bucketed by the owning farmer's location.
type LocationCount struct {
	Location string `db:"location"`
	Count    int    `db:"count"`
}

type CropStore struct {
	db *sqlx.DB
}

func NewCropStore(db *sqlx.DB) *CropStore {
	return &CropStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *CropStore) q(query string) string { return s.db.Rebind(query) }

func (s *CropStore) Create(ctx context.Context, c *Crop) (*Crop, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO crops (id, name, type, quantity, planting_date, harvest_date, description, status, farmer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, c.Name, c.Type, c.Quantity, c.PlantingDate, c.HarvestDate, c.Description, c.Status, c.FarmerID, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *CropStore) GetByID(ctx context.Context, id string) (*Crop, error) {
	var c Crop
	err := s.db.GetContext(ctx, &c, s.q(`SELECT * FROM crops WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns a page of crops matching the filter plus the total match count.
func (s *CropStore) List(ctx context.Context, f CropFilter) ([]*Crop, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.FarmerID != "" {
		where = append(where, "farmer_id = ?")
		args = append(args, f.FarmerID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.GetContext(ctx, &total, s.q(fmt.Sprintf(`SELECT COUNT(*) FROM crops WHERE %s`, cond)), args...); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	var crops []*Crop
	err := s.db.SelectContext(ctx, &crops, s.q(fmt.Sprintf(`
		SELECT * FROM crops WHERE %s
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, cond)), args...)
	if err != nil {
		return nil, 0, err
	}
	return crops, total, nil
}

// Update overwrites the mutable fields of the crop row identified by c.ID.
func (s *CropStore) Update(ctx context.Context, c *Crop) (*Crop, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE crops SET name = ?, type = ?, quantity = ?, planting_date = ?, harvest_date = ?,
		       description = ?, status = ?, farmer_id = ?, updated_at = ?
		WHERE id = ?
	`), c.Name, c.Type, c.Quantity, c.PlantingDate, c.HarvestDate, c.Description, c.Status, c.FarmerID, time.Now().UTC(), c.ID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, c.ID)
}

func (s *CropStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM crops WHERE id = ?`), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats summarizes crops. An empty farmerID summarizes the whole system.
func (s *CropStore) Stats(ctx context.Context, farmerID string) (*CropStats, error) {
	q := `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(quantity), 0) AS total_quantity,
		       COALESCE(SUM(CASE WHEN status = 'PLANTED' THEN 1 ELSE 0 END), 0) AS planted,
		       COALESCE(SUM(CASE WHEN status = 'HARVESTED' THEN 1 ELSE 0 END), 0) AS harvested,
		       COALESCE(SUM(CASE WHEN status = 'SOLD' THEN 1 ELSE 0 END), 0) AS sold
		FROM crops`
	args := []any{}
	if farmerID != "" {
		q += ` WHERE farmer_id = ?`
		args = append(args, farmerID)
	}
	var st CropStats
	if err := s.db.GetContext(ctx, &st, s.q(q), args...); err != nil {
		return nil, err
	}
	return &st, nil
}

// CountByType returns crop counts bucketed by type, descending.
func (s *CropStore) CountByType(ctx context.Context) ([]*TypeCount, error) {
	var counts []*TypeCount
	err := s.db.SelectContext(ctx, &counts, `
		SELECT type, COUNT(*) AS count FROM crops
		GROUP BY type ORDER BY count DESC, type`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByLocation returns crop counts bucketed by the owning farmer's profile
// location. Crops whose farmer has no location are grouped under "UNKNOWN".
func (s *CropStore) CountByLocation(ctx context.Context) ([]*LocationCount, error) {
	var counts []*LocationCount
	err := s.db.SelectContext(ctx, &counts, `
		SELECT COALESCE(p.location, 'UNKNOWN') AS location, COUNT(*) AS count
		FROM crops c
		INNER JOIN profiles p ON p.user_id = c.farmer_id
		GROUP BY COALESCE(p.location, 'UNKNOWN')
		ORDER BY count DESC, location`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountCreatedBetween returns how many crops were created in [from, to).
func (s *CropStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM crops WHERE created_at >= ? AND created_at < ?`), from, to)
	return n, err
}

// Recent returns the n most recently created crops.
func (s *CropStore) Recent(ctx context.Context, n int) ([]*Crop, error) {
	var crops []*Crop
	err := s.db.SelectContext(ctx, &crops, s.q(`
		SELECT * FROM crops ORDER BY created_at DESC, id LIMIT ?`), n)
	if err != nil {
		return nil, err
	}
	return crops, nil
}
