package store

import (
	"database/sql"
	"fmt"

	"github.com/jmorgan/upkeep/internal/model"
)

type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const catalogCols = `id, code, name, category, subtype, frequency, instructions,
	requires_freeze, requires_hurricane, requires_wildfire, requires_hard_water,
	requires_sprinklers, service_recommended, diy_allowed, created_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.TaskDefinition, error) {
	var t model.TaskDefinition
	var freeze, hurricane, wildfire, hardWater, sprinklers, service, diy int
	err := scanner.Scan(
		&t.ID, &t.Code, &t.Name, &t.Category, &t.Subtype, &t.Frequency, &t.Instructions,
		&freeze, &hurricane, &wildfire, &hardWater, &sprinklers, &service, &diy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.RequiresFreeze = freeze != 0
	t.RequiresHurricane = hurricane != 0
	t.RequiresWildfire = wildfire != 0
	t.RequiresHardWater = hardWater != 0
	t.RequiresSprinklers = sprinklers != 0
	t.ServiceRecommended = service != 0
	t.DIYAllowed = diy != 0
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create inserts a catalog task. Existing codes are updated in place so
// repeated imports converge instead of erroring.
func (s *CatalogStore) Create(t model.TaskDefinition) (*model.TaskDefinition, error) {
	_, err := s.db.Exec(
		`INSERT INTO task_catalog (code, name, category, subtype, frequency, instructions,
			requires_freeze, requires_hurricane, requires_wildfire, requires_hard_water,
			requires_sprinklers, service_recommended, diy_allowed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			name = excluded.name, category = excluded.category, subtype = excluded.subtype,
			frequency = excluded.frequency, instructions = excluded.instructions,
			requires_freeze = excluded.requires_freeze, requires_hurricane = excluded.requires_hurricane,
			requires_wildfire = excluded.requires_wildfire, requires_hard_water = excluded.requires_hard_water,
			requires_sprinklers = excluded.requires_sprinklers,
			service_recommended = excluded.service_recommended, diy_allowed = excluded.diy_allowed`,
		t.Code, t.Name, t.Category, t.Subtype, t.Frequency, t.Instructions,
		boolToInt(t.RequiresFreeze), boolToInt(t.RequiresHurricane), boolToInt(t.RequiresWildfire),
		boolToInt(t.RequiresHardWater), boolToInt(t.RequiresSprinklers),
		boolToInt(t.ServiceRecommended), boolToInt(t.DIYAllowed),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByCode(t.Code)
}

func (s *CatalogStore) GetByID(id int64) (*model.TaskDefinition, error) {
	row := s.db.QueryRow(`SELECT `+catalogCols+` FROM task_catalog WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *CatalogStore) GetByCode(code string) (*model.TaskDefinition, error) {
	row := s.db.QueryRow(`SELECT `+catalogCols+` FROM task_catalog WHERE code = ?`, code)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task by code: %w", err)
	}
	return t, nil
}

func (s *CatalogStore) List() ([]model.TaskDefinition, error) {
	rows, err := s.db.Query(`SELECT ` + catalogCols + ` FROM task_catalog ORDER BY category ASC, code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.TaskDefinition
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
