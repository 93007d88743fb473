package main

import (
	"DuoPlay/models/postgres"
	"DuoPlay/services/auth"
	"DuoPlay/services/invites"
	"DuoPlay/services/partnerships"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed achievements.yaml
var achievementsYAML []byte

type catalogEntry struct {
	Key         string         `yaml:"key"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	IconURL     string         `yaml:"icon_url"`
	Category    string         `yaml:"category"`
	Points      int            `yaml:"points"`
	Shared      bool           `yaml:"shared"`
	Requirement map[string]any `yaml:"requirement"`
}

// LoadCatalog parses an achievement catalog
func LoadCatalog(data []byte) ([]postgres.Achievement, error) {
	var entries []catalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing achievement catalog: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	achievements := make([]postgres.Achievement, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" || e.Name == "" || e.Category == "" {
			return nil, fmt.Errorf("achievement %q needs key, name and category", e.Key)
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("duplicated achievement key %q", e.Key)
		}
		seen[e.Key] = true

		requirement, err := json.Marshal(e.Requirement)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", e.Key, err)
		}
		achievements = append(achievements, postgres.Achievement{
			Key:         e.Key,
			Name:        e.Name,
			Description: e.Description,
			IconURL:     e.IconURL,
			Category:    e.Category,
			Points:      e.Points,
			IsShared:    e.Shared,
			Requirement: datatypes.JSON(requirement),
		})
	}
	return achievements, nil
}

// UpsertAchievements inserts the catalog, updating entries whose key exists
func UpsertAchievements(db *gorm.DB, achievements []postgres.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon_url", "category", "points", "is_shared", "requirement"}),
	}).Create(&achievements).Error
}

type demoUser struct {
	username    string
	displayName string
}

var demoUsers = [2]demoUser{
	{username: "demo_alex", displayName: "Alex"},
	{username: "demo_sam", displayName: "Sam"},
}

// DemoPassword is the password of the demo accounts
const DemoPassword = "duoplay-demo"

// SeedDemo creates two demo accounts paired through a real invite. Running it
// again leaves existing accounts and their partnership untouched.
func SeedDemo(ctx context.Context, db *gorm.DB, authService *auth.Service, registry *invites.Registry, store *partnerships.Store) (*partnerships.View, error) {
	var ids [2]string
	for i, u := range demoUsers {
		id, err := ensureUser(ctx, db, authService, u)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	current, err := store.GetCurrent(ctx, ids[1])
	if err != nil {
		return nil, err
	}
	if current != nil {
		log.Printf("[SEED] %s already has a partner", demoUsers[1].username)
		return current, nil
	}

	invite, err := registry.CreateInvite(ctx, ids[0])
	if err != nil {
		return nil, fmt.Errorf("creating demo invite: %w", err)
	}
	view, err := registry.RedeemInvite(ctx, ids[1], invite.Code)
	if err != nil {
		return nil, fmt.Errorf("redeeming demo invite: %w", err)
	}
	log.Printf("[SEED] Paired %s and %s with %s", demoUsers[0].username, demoUsers[1].username, invite.Code)
	return view, nil
}

func ensureUser(ctx context.Context, db *gorm.DB, authService *auth.Service, u demoUser) (string, error) {
	var existing postgres.User
	err := db.WithContext(ctx).Select("id").Where("username = ?", u.username).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	result, err := authService.Register(ctx, auth.RegisterInput{
		Email:       u.username + "@duoplay.test",
		Password:    DemoPassword,
		Username:    u.username,
		DisplayName: u.displayName,
	}, auth.ClientMeta{UserAgent: "seed"})
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", u.username, err)
	}
	log.Printf("[SEED] Created user %s", u.username)
	return result.User.ID, nil
}
