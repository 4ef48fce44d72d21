package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

const settingsID = 1

func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var contact, hours []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT contact_info, opening_hours FROM settings WHERE id = $1`, settingsID,
	).Scan(&contact, &hours)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settings: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(contact, &settings.ContactInfo); err != nil {
		return nil, fmt.Errorf("unmarshal contact info: %w", err)
	}
	if err := json.Unmarshal(hours, &settings.OpeningHours); err != nil {
		return nil, fmt.Errorf("unmarshal opening hours: %w", err)
	}
	return &settings, nil
}

// UpdateSettings overwrites the singleton; the last write wins.
func (s *Store) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	contact, err := json.Marshal(settings.ContactInfo)
	if err != nil {
		return fmt.Errorf("marshal contact info: %w", err)
	}
	hours := settings.OpeningHours
	if hours == nil {
		hours = map[string]string{}
	}
	hoursJSON, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("marshal opening hours: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, contact_info, opening_hours) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET contact_info = EXCLUDED.contact_info, opening_hours = EXCLUDED.opening_hours`,
		settingsID, string(contact), string(hoursJSON))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
