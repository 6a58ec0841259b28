// Package seed fills a database with fake users, posts and engagement for
// local development and demos. All writes go through the service layer so
// seeded data obeys the same rules as API traffic.
package seed

import (
	"fmt"
	"os"

	"inkwell/internal/validation"

	"gopkg.in/yaml.v3"
)

// Account is a fixed login created before the random users.
type Account struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
}

// Plan describes how much data to generate. Chances are probabilities in
// [0, 1] applied to every eligible pair.
type Plan struct {
	Users           int       `yaml:"users"`
	PostsPerUser    int       `yaml:"posts_per_user"`
	CommentsPerPost int       `yaml:"comments_per_post"`
	ReplyChance     float64   `yaml:"reply_chance"`
	LikeChance      float64   `yaml:"like_chance"`
	FollowChance    float64   `yaml:"follow_chance"`
	BookmarkChance  float64   `yaml:"bookmark_chance"`
	Password        string    `yaml:"password"`
	RandomSeed      int64     `yaml:"random_seed"`
	Accounts        []Account `yaml:"accounts"`
}

// DefaultPlan is used when no plan file is given.
func DefaultPlan() Plan {
	return Plan{
		Users:           20,
		PostsPerUser:    3,
		CommentsPerPost: 2,
		ReplyChance:     0.3,
		LikeChance:      0.25,
		FollowChance:    0.2,
		BookmarkChance:  0.1,
		Password:        "password123",
	}
}

// ParsePlan decodes a YAML plan on top of DefaultPlan.
func ParsePlan(data []byte) (Plan, error) {
	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("failed to parse seed plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// LoadPlan reads a YAML plan from path.
func LoadPlan(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read seed plan: %w", err)
	}
	return ParsePlan(raw)
}

// Validate rejects negative sizes, out of range chances and weak passwords.
func (p Plan) Validate() error {
	if p.Users < 0 || p.PostsPerUser < 0 || p.CommentsPerPost < 0 {
		return fmt.Errorf("seed plan sizes must not be negative")
	}
	chances := map[string]float64{
		"reply_chance":    p.ReplyChance,
		"like_chance":     p.LikeChance,
		"follow_chance":   p.FollowChance,
		"bookmark_chance": p.BookmarkChance,
	}
	for name, v := range chances {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}
	if err := validation.ValidatePassword(p.Password); err != nil {
		return fmt.Errorf("seed password: %w", err)
	}
	for _, a := range p.Accounts {
		if err := validation.ValidateUsername(a.Username); err != nil {
			return fmt.Errorf("account %q: %w", a.Username, err)
		}
	}
	return nil
}
