package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/dgallion1/steelbid/internal/estimate"
)

const settingsRowID = 1

type settingsRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Data      string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (settingsRow) TableName() string { return "steelbid_settings" }

type estimateRow struct {
	ID        string  `gorm:"primaryKey;type:uuid"`
	JobName   string  `gorm:"not null;default:''"`
	Filename  string  `gorm:"not null;default:''"`
	Members   string  `gorm:"type:jsonb;not null"`
	Settings  *string `gorm:"type:jsonb"`
	Count     int     `gorm:"column:member_count;not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (estimateRow) TableName() string { return "steelbid_estimates" }

// Postgres stores settings and estimates in PostgreSQL through GORM.
// Members and settings are JSON columns.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects, migrates the schema and seeds settings when the
// settings table is empty.
func OpenPostgres(ctx context.Context, dsn string, initial estimate.Settings) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	p := &Postgres{db: db}
	if err := db.WithContext(ctx).AutoMigrate(&settingsRow{}, &estimateRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	data, err := json.Marshal(initial.WithDefaults())
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	seed := settingsRow{ID: settingsRowID, Data: string(data), UpdatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return p, nil
}

func (p *Postgres) GetSettings(ctx context.Context) (estimate.Settings, error) {
	var row settingsRow
	err := p.db.WithContext(ctx).First(&row, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return estimate.DefaultSettings(), nil
	}
	if err != nil {
		return estimate.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	var s estimate.Settings
	if err := json.Unmarshal([]byte(row.Data), &s); err != nil {
		return estimate.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s.WithDefaults(), nil
}

func (p *Postgres) PutSettings(ctx context.Context, s estimate.Settings) error {
	data, err := json.Marshal(s.WithDefaults())
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	row := settingsRow{ID: settingsRowID, Data: string(data), UpdatedAt: time.Now().UTC()}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

func (p *Postgres) SaveEstimate(ctx context.Context, e *SavedEstimate) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev estimateRow
		err := tx.Select("created_at").First(&prev, "id = ?", e.ID).Error
		switch {
		case err == nil:
			e.CreatedAt = prev.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			if e.CreatedAt.IsZero() {
				e.CreatedAt = now
			}
		default:
			return fmt.Errorf("load estimate %s: %w", e.ID, err)
		}
		e.UpdatedAt = now

		row, err := toRow(e)
		if err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("save estimate %s: %w", e.ID, err)
		}
		return nil
	})
}

func (p *Postgres) GetEstimate(ctx context.Context, id string) (*SavedEstimate, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	var row estimateRow
	err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get estimate %s: %w", id, err)
	}
	return fromRow(row)
}

func (p *Postgres) ListEstimates(ctx context.Context) ([]Summary, error) {
	var rows []estimateRow
	err := p.db.WithContext(ctx).
		Select("id", "job_name", "filename", "member_count", "created_at", "updated_at").
		Order("updated_at DESC, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, Summary{
			ID:          r.ID,
			JobName:     r.JobName,
			Filename:    r.Filename,
			MemberCount: r.Count,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func (p *Postgres) DeleteEstimate(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	res := p.db.WithContext(ctx).Delete(&estimateRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete estimate %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(e *SavedEstimate) (estimateRow, error) {
	members := e.Members
	if members == nil {
		members = []estimate.Member{}
	}
	mdata, err := json.Marshal(members)
	if err != nil {
		return estimateRow{}, fmt.Errorf("marshal members: %w", err)
	}
	row := estimateRow{
		ID:        e.ID,
		JobName:   e.JobName,
		Filename:  e.Filename,
		Members:   string(mdata),
		Count:     len(members),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Settings != nil {
		sdata, err := json.Marshal(e.Settings)
		if err != nil {
			return estimateRow{}, fmt.Errorf("marshal settings: %w", err)
		}
		s := string(sdata)
		row.Settings = &s
	}
	return row, nil
}

func fromRow(row estimateRow) (*SavedEstimate, error) {
	e := &SavedEstimate{
		ID:        row.ID,
		JobName:   row.JobName,
		Filename:  row.Filename,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Members), &e.Members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	if e.Members == nil {
		e.Members = []estimate.Member{}
	}
	if row.Settings != nil {
		var s estimate.Settings
		if err := json.Unmarshal([]byte(*row.Settings), &s); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		e.Settings = &s
	}
	return e, nil
}
