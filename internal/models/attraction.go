package models

// Difficulty bounds accepted for an attraction.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Attraction represents a park ride or exhibit.
type Attraction struct {
	// ID is the store-generated identifier.
	ID int64 `json:"attraction_id"`

	// Name is the display name shown to visitors.
	Name string `json:"nom"`

	// Description is the free-text presentation of the attraction.
	Description string `json:"description"`

	// Difficulty is the thrill level, between MinDifficulty and MaxDifficulty.
	Difficulty int `json:"difficulte"`

	// Visible controls whether the attraction appears in public listings.
	Visible bool `json:"visible"`

	// CreatedAt is the Unix timestamp when the attraction was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last full-field update.
	UpdatedAt int64 `json:"updated_at"`

	// Reviews is only populated by listings that embed reviews.
	Reviews []Review `json:"critiques,omitempty"`
}
