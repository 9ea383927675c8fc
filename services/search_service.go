package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pawfinder/pawfinder-api/models"
	"gorm.io/gorm"
)

// SearchParams is the sparse filter set stored with a saved search and
// accepted by the listing browse endpoint. Absent fields impose no
// constraint; present fields are ANDed together.
type SearchParams struct {
	Breed      string   `json:"breed,omitempty"`       // substring, case-insensitive
	Gender     string   `json:"gender,omitempty"`      // exact
	Location   string   `json:"location,omitempty"`    // substring, case-insensitive
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	MinAge     *int     `json:"min_age,omitempty"` // months
	MaxAge     *int     `json:"max_age,omitempty"` // months
	Vaccinated bool     `json:"vaccinated,omitempty"`
	Neutered   bool     `json:"neutered,omitempty"`
	Query      string   `json:"query,omitempty"` // free text over name/breed/location/description
}

// Matches reports whether the dog satisfies every present filter. Only
// available dogs ever match. The predicate is pure: it reads the dog
// and the params and touches nothing else.
func Matches(dog *models.Dog, params *SearchParams) bool {
	if dog == nil || params == nil {
		return false
	}
	if dog.Status != models.DogStatusAvailable {
		return false
	}

	if params.Breed != "" && !containsFold(dog.Breed, params.Breed) {
		return false
	}
	if params.Gender != "" && dog.Gender != params.Gender {
		return false
	}
	if params.Location != "" && !containsFold(dog.Location, params.Location) {
		return false
	}
	if params.MinPrice != nil && dog.Price < *params.MinPrice {
		return false
	}
	if params.MaxPrice != nil && dog.Price > *params.MaxPrice {
		return false
	}
	if params.MinAge != nil && dog.AgeMonths < *params.MinAge {
		return false
	}
	if params.MaxAge != nil && dog.AgeMonths > *params.MaxAge {
		return false
	}
	if params.Vaccinated && !dog.IsVaccinated {
		return false
	}
	if params.Neutered && !dog.IsNeutered {
		return false
	}
	if params.Query != "" {
		haystack := strings.Join([]string{dog.Name, dog.Breed, dog.Location, dog.Description}, " ")
		if !containsFold(haystack, params.Query) {
			return false
		}
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SearchService evaluates new listings against stored saved searches
// and produces alert emails for the owners of matching searches.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a search service bound to the given database
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// MatchSavedSearch decodes the stored parameters and evaluates the dog
// against them. A malformed stored parameter set fails closed: the
// search simply does not match.
func (s *SearchService) MatchSavedSearch(dog *models.Dog, search *models.SavedSearch) bool {
	var params SearchParams
	if err := json.Unmarshal([]byte(search.Params), &params); err != nil {
		log.Printf("saved search %d has malformed params, skipping: %v", search.ID, err)
		return false
	}
	return Matches(dog, &params)
}

// NotifyNewListing evaluates the dog against every stored saved search
// and returns one alert email per matching search owner. A search that
// fails to evaluate or an owner that fails to load never affects the
// other searches.
func (s *SearchService) NotifyNewListing(dog *models.Dog) []Event {
	var searches []models.SavedSearch
	if err := s.db.Preload("User").Find(&searches).Error; err != nil {
		log.Printf("failed to load saved searches for dog %d: %v", dog.ID, err)
		return nil
	}

	var events []Event
	for i := range searches {
		search := &searches[i]
		if search.User.ID == dog.SellerID {
			continue
		}
		if !s.MatchSavedSearch(dog, search) {
			continue
		}
		if search.User.Email == "" {
			continue
		}
		events = append(events, EmailEvent{
			To:      search.User.Email,
			Subject: fmt.Sprintf("New listing matches your search: %s", dog.Name),
			Body: fmt.Sprintf("A new %s named %s in %s was just listed for $%.2f and matches your saved search.",
				dog.Breed, dog.Name, dog.Location, dog.Price),
		})
	}
	return events
}
