package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/mmynk/parcattraction/internal/models"
)

// demoAttractions is the sample catalogue. Two entries are hidden so the
// visible listings have something to filter out.
var demoAttractions = []models.Attraction{
	{Name: "Silver Star", Description: "Une montagne russe mythique avec des loopings vertigineux et une chute de 73 mètres.", Difficulty: 4, Visible: true},
	{Name: "Le Condor", Description: "Une chute libre spectaculaire de 100 mètres de hauteur. Sensations fortes garanties!", Difficulty: 5, Visible: true},
	{Name: "Le Carrousel", Description: "Manège traditionnel pour les plus petits. Douceur et musique d'antan.", Difficulty: 1, Visible: true},
	{Name: "Maintenance Express", Description: "Attraction actuellement en maintenance - NE PAS AFFICHER", Difficulty: 3, Visible: false},
	{Name: "Space Mountain", Description: "Voyage dans les étoiles à toute vitesse dans le noir complet.", Difficulty: 4, Visible: true},
	{Name: "Le Petit Train", Description: "Balade tranquille à travers le parc pour découvrir les coulisses.", Difficulty: 1, Visible: true},
	{Name: "Le Manoir Hanté", Description: "Parcours terrifiant dans une maison hantée. Âmes sensibles s'abstenir!", Difficulty: 4, Visible: false},
}

// demoReview references its attraction by index into demoAttractions.
type demoReview struct {
	attraction int
	review     models.Review
}

var demoReviews = []demoReview{
	{0, models.Review{LastName: "Dupont", FirstName: "Marie", Rating: 5, Comment: "Incroyable! Les sensations sont au rendez-vous. Une attraction à ne pas manquer!"}},
	{0, models.Review{LastName: "Martin", FirstName: "Jean", Rating: 4, Comment: "Très bien mais un peu d'attente. L'attraction en elle-même est top!"}},
	{0, models.Review{LastName: models.AnonymousName, Rating: 5, Comment: "Meilleure attraction du parc sans hésitation!", Anonymous: true}},
	{1, models.Review{LastName: "Bernard", FirstName: "Sophie", Rating: 5, Comment: "J'ai adoré la chute libre! Mon cœur bat encore!"}},
	{1, models.Review{LastName: models.AnonymousName, Rating: 3, Comment: "Trop intense pour moi, mais bien pour les amateurs de sensations fortes.", Anonymous: true}},
	{2, models.Review{LastName: "Petit", FirstName: "Lucas", Rating: 5, Comment: "Mon fils de 4 ans a adoré! Parfait pour les enfants."}},
	{4, models.Review{LastName: "Rousseau", FirstName: "Emma", Rating: 5, Comment: "Space Mountain est toujours aussi magique après toutes ces années!"}},
	{4, models.Review{LastName: models.AnonymousName, Rating: 4, Comment: "Super attraction mais la file d'attente était très longue.", Anonymous: true}},
	{5, models.Review{LastName: "Lefebvre", FirstName: "Pierre", Rating: 4, Comment: "Balade agréable et reposante entre deux attractions à sensations."}},
}

// SeedDemo inserts the sample attractions and their reviews.
// It is not idempotent: calling it twice duplicates the catalogue.
func (s *SQLiteStore) SeedDemo(ctx context.Context) error {
	ids := make([]int64, len(demoAttractions))
	for i := range demoAttractions {
		a := demoAttractions[i]
		id, err := s.CreateAttraction(ctx, &a)
		if err != nil {
			return fmt.Errorf("failed to seed attraction %q: %w", a.Name, err)
		}
		ids[i] = id
	}

	for _, d := range demoReviews {
		r := d.review
		r.AttractionID = ids[d.attraction]
		if _, err := s.CreateReview(ctx, &r); err != nil {
			return fmt.Errorf("failed to seed review for attraction %d: %w", r.AttractionID, err)
		}
	}

	return nil
}

// Stats summarizes table contents.
type Stats struct {
	Attractions int64
	Visible     int64
	Reviews     int64
	Users       int64
}

// Hidden is the number of attractions not shown in public listings.
func (st Stats) Hidden() int64 {
	return st.Attractions - st.Visible
}

// Stats counts rows in every table with a single statement.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	stmt := s.dialect.Select(
		goqu.L("(SELECT COUNT(*) FROM attraction)"),
		goqu.L("(SELECT COUNT(*) FROM attraction WHERE visible = 1)"),
		goqu.L("(SELECT COUNT(*) FROM critique)"),
		goqu.L("(SELECT COUNT(*) FROM users)"),
	)

	var st Stats
	err := s.query(ctx, "stats", stmt, func(rows *sql.Rows) error {
		return rows.Scan(&st.Attractions, &st.Visible, &st.Reviews, &st.Users)
	})
	return st, err
}
