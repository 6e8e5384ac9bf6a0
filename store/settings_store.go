package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// MainSettingsID is the single settings row every viewer reads.
const MainSettingsID = "main"

type SettingsStore struct {
	pool *Pool
}

func NewSettingsStore(pool *Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Get returns the published settings, with defaults for a missing row or
// empty columns.
func (s *SettingsStore) Get(ctx context.Context) (*Settings, error) {
	query := `SELECT milestones, stats FROM settings WHERE id = $1`

	var rawMilestones, rawStats []byte
	err := s.pool.QueryRow(ctx, query, MainSettingsID).Scan(&rawMilestones, &rawStats)
	if err != nil {
		if isNotFoundError(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Wrap(err, "get settings")
	}
	return decodeSettings(rawMilestones, rawStats)
}

// Update overwrites the published settings; viewers learn about it through
// the settings_changes notification.
func (s *SettingsStore) Update(ctx context.Context, milestones []Milestone, stats Stats) error {
	rawMilestones, err := json.Marshal(milestones)
	if err != nil {
		return errors.Wrap(err, "marshal milestones")
	}
	rawStats, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}

	query := `
		INSERT INTO settings (id, milestones, stats, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET milestones = EXCLUDED.milestones, stats = EXCLUDED.stats, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, MainSettingsID, string(rawMilestones), string(rawStats)); err != nil {
		return errors.Wrap(err, "update settings")
	}
	return nil
}

func decodeSettings(rawMilestones, rawStats []byte) (*Settings, error) {
	settings := DefaultSettings()
	if len(rawMilestones) != 0 && string(rawMilestones) != "null" {
		var milestones []Milestone
		if err := json.Unmarshal(rawMilestones, &milestones); err != nil {
			return nil, errors.Wrap(err, "decode milestones")
		}
		settings.Milestones = milestones
	}
	if len(rawStats) != 0 && string(rawStats) != "null" {
		var stats Stats
		if err := json.Unmarshal(rawStats, &stats); err != nil {
			return nil, errors.Wrap(err, "decode stats")
		}
		settings.Stats = stats
	}
	return settings, nil
}

// LoadSettingsFile reads milestones and stats from a YAML, JSON or TOML file.
// Sections left out of the file keep their defaults.
func LoadSettingsFile(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read settings file %s", path)
	}

	settings := DefaultSettings()
	if v.IsSet("milestones") {
		var milestones []Milestone
		if err := v.UnmarshalKey("milestones", &milestones); err != nil {
			return nil, errors.Wrap(err, "decode milestones")
		}
		settings.Milestones = milestones
	}
	if v.IsSet("stats") {
		if err := v.UnmarshalKey("stats", &settings.Stats); err != nil {
			return nil, errors.Wrap(err, "decode stats")
		}
	}
	return settings, nil
}
