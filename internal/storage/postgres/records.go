package postgres

import (
	"context"
	"fmt"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"github.com/shopspring/decimal"
)

// CemeteryRepo implements storage.CemeteryRepository.
type CemeteryRepo struct {
	db Querier
}

var _ storage.CemeteryRepository = (*CemeteryRepo)(nil)

const cemeteryColumns = `id, name, address, city, state, contact_name, contact_phone, contact_email, notes, created_at, updated_at`

func scanCemetery(row rowScanner) (*models.Cemetery, error) {
	var c models.Cemetery
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.State,
		&c.ContactName, &c.ContactPhone, &c.ContactEmail, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CemeteryRepo) GetByID(ctx context.Context, id int64) (*models.Cemetery, error) {
	c, err := scanCemetery(r.db.QueryRow(ctx, `SELECT `+cemeteryColumns+` FROM cemeteries WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get cemetery %d", id))
	}
	return c, nil
}

func (r *CemeteryRepo) Create(ctx context.Context, c *models.Cemetery) (*models.Cemetery, error) {
	query := `
		INSERT INTO cemeteries (name, address, city, state, contact_name, contact_phone, contact_email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + cemeteryColumns
	created, err := scanCemetery(r.db.QueryRow(ctx, query,
		c.Name, c.Address, c.City, c.State, c.ContactName, c.ContactPhone, c.ContactEmail, c.Notes))
	if err != nil {
		return nil, mapWriteError(err, "failed to create cemetery")
	}
	return created, nil
}

// PlotRepo implements storage.PlotRepository.
type PlotRepo struct {
	db Querier
}

var _ storage.PlotRepository = (*PlotRepo)(nil)

const plotColumns = `id, cemetery_id, section, "row", plot_number, gps_lat, gps_lng, access_notes, created_at, updated_at`

func scanPlot(row rowScanner) (*models.Plot, error) {
	var p models.Plot
	err := row.Scan(&p.ID, &p.CemeteryID, &p.Section, &p.Row, &p.PlotNumber,
		&p.GPSLat, &p.GPSLng, &p.AccessNotes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlotRepo) GetByID(ctx context.Context, id int64) (*models.Plot, error) {
	p, err := scanPlot(r.db.QueryRow(ctx, `SELECT `+plotColumns+` FROM plots WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get plot %d", id))
	}
	return p, nil
}

func (r *PlotRepo) Create(ctx context.Context, p *models.Plot) (*models.Plot, error) {
	query := `
		INSERT INTO plots (cemetery_id, section, "row", plot_number, gps_lat, gps_lng, access_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + plotColumns
	created, err := scanPlot(r.db.QueryRow(ctx, query,
		p.CemeteryID, p.Section, p.Row, p.PlotNumber, p.GPSLat, p.GPSLng, p.AccessNotes))
	if err != nil {
		return nil, mapWriteError(err, "failed to create plot")
	}
	return created, nil
}

func (r *PlotRepo) UpdateGPS(ctx context.Context, id int64, lat, lng decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE plots SET gps_lat = $2, gps_lng = $3, updated_at = NOW() WHERE id = $1`, id, lat, lng)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to update gps of plot %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *PlotRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plots WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to delete plot %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MemorialRepo implements storage.MemorialRepository.
type MemorialRepo struct {
	db Querier
}

var _ storage.MemorialRepository = (*MemorialRepo)(nil)

const memorialColumns = `id, customer_id, plot_id, material, inscription_text, condition_summary, install_date, notes, created_at, updated_at`

func scanMemorial(row rowScanner) (*models.Memorial, error) {
	var m models.Memorial
	err := row.Scan(&m.ID, &m.CustomerID, &m.PlotID, &m.Material, &m.InscriptionText,
		&m.ConditionSummary, &m.InstallDate, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemorialRepo) GetByID(ctx context.Context, id int64) (*models.Memorial, error) {
	m, err := scanMemorial(r.db.QueryRow(ctx, `SELECT `+memorialColumns+` FROM memorials WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get memorial %d", id))
	}
	return m, nil
}

func (r *MemorialRepo) Create(ctx context.Context, m *models.Memorial) (*models.Memorial, error) {
	query := `
		INSERT INTO memorials (customer_id, plot_id, material, inscription_text, condition_summary, install_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + memorialColumns
	created, err := scanMemorial(r.db.QueryRow(ctx, query,
		m.CustomerID, m.PlotID, string(m.Material), m.InscriptionText, m.ConditionSummary, m.InstallDate, m.Notes))
	if err != nil {
		return nil, mapWriteError(err, "failed to create memorial")
	}
	return created, nil
}

// Delete cascades to the memorial's services and photos.
func (r *MemorialRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM memorials WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to delete memorial %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
