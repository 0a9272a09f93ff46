package models

// Rating bounds accepted for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// AnonymousName is the last name recorded when a reviewer gives none.
const AnonymousName = "Anonyme"

// Review is a visitor rating attached to one attraction.
type Review struct {
	ID           int64  `json:"critique_id"`
	AttractionID int64  `json:"attraction_id"`
	LastName     string `json:"nom"`
	FirstName    string `json:"prenom"`
	Rating       int    `json:"note"`
	Comment      string `json:"commentaire"`
	Anonymous    bool   `json:"est_anonyme"`
	CreatedAt    int64  `json:"created_at"`
}
