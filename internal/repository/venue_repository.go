package repository // repository defines data access for venue layouts

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

// VenueRepo reads venue layouts from three tables:
//
//	venues          (id, name, map_width, map_height)
//	venue_sections  (id, venue_id, label, offset_x, offset_y, scale, position)
//	venue_seats     (id, section_id, row_index, col, x, y, price_tier, status)
//
// Sections come back in position order and seats in (row_index, col) order,
// which is the display order the rest of the app relies on.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// GetVenue loads the full venue tree for id.
func (r *VenueRepo) GetVenue(ctx context.Context, id string) (*model.Venue, error) {
	const qVenue = `SELECT id, name, map_width, map_height FROM venues WHERE id = ?`
	v := &model.Venue{}
	err := r.db.QueryRowContext(ctx, qVenue, id).
		Scan(&v.ID, &v.Name, &v.Map.Width, &v.Map.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}

	sections, err := r.sections(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.fillSeats(ctx, id, sections); err != nil {
		return nil, err
	}
	v.Sections = sections
	return v, nil
}

func (r *VenueRepo) sections(ctx context.Context, venueID string) ([]model.Section, error) {
	const q = `SELECT id, label, offset_x, offset_y, scale
	           FROM venue_sections
	           WHERE venue_id = ?
	           ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.Label, &s.Transform.X, &s.Transform.Y, &s.Transform.Scale); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// fillSeats attaches seats to sections, grouping consecutive seats of the
// same row_index into one Row.
func (r *VenueRepo) fillSeats(ctx context.Context, venueID string, sections []model.Section) error {
	const q = `SELECT s.section_id, s.id, s.row_index, s.col, s.x, s.y, s.price_tier, s.status
	           FROM venue_seats s
	           JOIN venue_sections sec ON sec.id = s.section_id
	           WHERE sec.venue_id = ?
	           ORDER BY s.section_id, s.row_index, s.col`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return err
	}
	defer rows.Close()

	pos := make(map[string]int, len(sections))
	for i, s := range sections {
		pos[s.ID] = i
	}
	for rows.Next() {
		var (
			sectionID string
			rowIndex  int
			seat      model.Seat
			status    string
		)
		if err := rows.Scan(&sectionID, &seat.ID, &rowIndex, &seat.Col, &seat.X, &seat.Y, &seat.PriceTier, &status); err != nil {
			return err
		}
		seat.Status = model.SeatStatus(status)
		i, ok := pos[sectionID]
		if !ok {
			return fmt.Errorf("seat %s references unknown section %s", seat.ID, sectionID)
		}
		sec := &sections[i]
		if n := len(sec.Rows); n == 0 || sec.Rows[n-1].Index != rowIndex {
			sec.Rows = append(sec.Rows, model.Row{Index: rowIndex})
		}
		last := &sec.Rows[len(sec.Rows)-1]
		last.Seats = append(last.Seats, seat)
	}
	return rows.Err()
}

// SaveVenue replaces the venue with v in one transaction.  Existing
// sections and seats of the venue are removed first, so re-seeding is
// idempotent.  Section position follows slice order.
func (r *VenueRepo) SaveVenue(ctx context.Context, v *model.Venue) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const (
		qVenue = `INSERT INTO venues (id, name, map_width, map_height) VALUES (?, ?, ?, ?)
		          ON DUPLICATE KEY UPDATE name = VALUES(name), map_width = VALUES(map_width), map_height = VALUES(map_height)`
		qClear   = `DELETE FROM venue_sections WHERE venue_id = ?`
		qSection = `INSERT INTO venue_sections (id, venue_id, label, offset_x, offset_y, scale, position)
		            VALUES (?, ?, ?, ?, ?, ?, ?)`
		qSeat = `INSERT INTO venue_seats (id, section_id, row_index, col, x, y, price_tier, status)
		         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	)
	if _, err = tx.ExecContext(ctx, qVenue, v.ID, v.Name, v.Map.Width, v.Map.Height); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, qClear, v.ID); err != nil {
		return err
	}
	for pos, sec := range v.Sections {
		t := sec.Transform
		if _, err = tx.ExecContext(ctx, qSection, sec.ID, v.ID, sec.Label, t.X, t.Y, t.Scale, pos); err != nil {
			return err
		}
		for _, row := range sec.Rows {
			for _, s := range row.Seats {
				if _, err = tx.ExecContext(ctx, qSeat, s.ID, sec.ID, row.Index, s.Col, s.X, s.Y, s.PriceTier, string(s.Status)); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}
