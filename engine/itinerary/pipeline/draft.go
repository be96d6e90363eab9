package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// ActivitiesPerDay is how many attractions the draft asks for. The
// reconstructor caps morning and afternoon regardless; the rest spill into
// the evening.
func (p Pace) ActivitiesPerDay() int {
	switch p {
	case PaceRelaxed:
		return 3
	case PacePacked:
		return 6
	default:
		return 4
	}
}

// DraftVisitDuration is the display duration given to drafted attractions.
const DraftVisitDuration = "90 mins"

type TripRequest struct {
	Destination string `json:"destination" validate:"required"`
	Days        int    `json:"days" validate:"min=1,max=14"`
	Pace        Pace   `json:"pace,omitempty" validate:"omitempty,oneof=relaxed moderate packed"`
	Title       string `json:"title,omitempty"`
}

var (
	ErrNoPlaces     = errors.New("no places found")
	requestValidate = validator.New()
)

func (r *TripRequest) Validate() error {
	if err := requestValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid trip request: %w", err)
	}
	return nil
}

// Generate drafts a trip from searcher results and certifies it.
func (p *Pipeline) Generate(ctx context.Context, req TripRequest, searcher PlaceSearcher) (*legacy.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	perDay := req.Pace.ActivitiesPerDay()
	places, err := searcher.SearchPlaces(ctx, req.Destination, req.Days*(perDay+2))
	if err != nil {
		return nil, fmt.Errorf("failed to search places for %s: %w", req.Destination, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%s: %w", req.Destination, ErrNoPlaces)
	}
	draft := Draft(req, places)
	p.log.Info("Drafted itinerary",
		"destination", req.Destination,
		"days", req.Days,
		"pace", req.Pace,
		"blocks", draft.BlockCount(),
	)
	return p.Certify(ctx, draft)
}

// Draft lays places out over the requested days. Restaurants become lunch and
// dinner; everything else is an attraction. Block order and times are left
// loose since certification rebuilds every day.
func Draft(req TripRequest, places []Place) *legacy.Document {
	var sights, restaurants []Place
	for _, place := range places {
		if isRestaurant(place) {
			restaurants = append(restaurants, place)
		} else {
			sights = append(sights, place)
		}
	}
	title := req.Title
	if title == "" && req.Destination != "" {
		title = "Trip to " + req.Destination
	}
	doc := &legacy.Document{Title: title, Days: make([]legacy.Day, 0, req.Days)}
	perDay := req.Pace.ActivitiesPerDay()
	for day := 1; day <= req.Days; day++ {
		blocks := make([]legacy.Block, 0, perDay+2)
		for range perDay {
			if len(sights) == 0 {
				break
			}
			blocks = append(blocks, sightBlock(sights[0]))
			sights = sights[1:]
		}
		for _, meal := range []string{legacy.MealLunch, legacy.MealDinner} {
			if len(restaurants) == 0 {
				break
			}
			blocks = append(blocks, mealBlock(restaurants[0], meal))
			restaurants = restaurants[1:]
		}
		doc.Days = append(doc.Days, legacy.Day{Day: day, Blocks: blocks})
	}
	return doc
}

func isRestaurant(place Place) bool {
	category := strings.ToLower(place.Category)
	return place.Cuisine != "" ||
		strings.Contains(category, "restaurant") ||
		strings.Contains(category, "food") ||
		strings.Contains(category, "cafe")
}

func sightBlock(place Place) legacy.Block {
	return legacy.Block{
		Activity:    "Visit " + place.Name,
		Duration:    DraftVisitDuration,
		Description: place.Description,
		Type:        legacy.BlockAttraction,
		Location:    place.Address,
		Category:    place.Category,
		Sources:     itinerary.ClonePayload(place.Sources),
		Coordinates: cloneCoordinates(place.Coordinates),
	}
}

func mealBlock(place Place, meal string) legacy.Block {
	return legacy.Block{
		Activity:    place.Name,
		Duration:    "1 hour",
		Description: place.Description,
		Type:        legacy.BlockMeal,
		MealType:    meal,
		Cuisine:     place.Cuisine,
		Location:    place.Address,
		Category:    place.Category,
		Sources:     itinerary.ClonePayload(place.Sources),
		Coordinates: cloneCoordinates(place.Coordinates),
	}
}

func cloneCoordinates(c *itinerary.Coordinates) *itinerary.Coordinates {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
