// Package butterflies manages the reward butterflies collected by completing
// habits.
package butterflies

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Colors a butterfly can have.
var Colors = []string{"blue", "purple", "pink", "orange", "green"}

// Sizes a butterfly can have.
var Sizes = []string{"sm", "md", "lg"}

// Butterfly is one collected reward.
type Butterfly struct {
	ID        string    `json:"id"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Collected time.Time `json:"collected"`
}

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

// Collection is the user's butterfly collection and favourites.
type Collection struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	intn   func(int) int
}

func NewCollection(store Store, logger *zap.Logger) *Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection{store: store, logger: logger, now: time.Now, intn: rand.IntN}
}

// All returns every collected butterfly in collection order.
func (c *Collection) All() ([]Butterfly, error) {
	var all []Butterfly
	if _, err := c.store.LoadJSON(db.KeyCollectedButterflies, &all); err != nil {
		return nil, fmt.Errorf("load butterflies: %w", err)
	}
	return all, nil
}

// Reward adds count butterflies with random colours and sizes.
func (c *Collection) Reward(count int) error {
	if count <= 0 {
		return nil
	}
	all, err := c.All()
	if err != nil {
		return err
	}

	now := c.now()
	for range count {
		all = append(all, Butterfly{
			ID:        uuid.NewString(),
			Color:     Colors[c.intn(len(Colors))],
			Size:      Sizes[c.intn(len(Sizes))],
			Collected: now,
		})
	}
	if err := c.store.SaveJSON(db.KeyCollectedButterflies, all); err != nil {
		return fmt.Errorf("save butterflies: %w", err)
	}

	c.logger.Info("Butterflies rewarded", zap.Int("count", count), zap.Int("total", len(all)))
	return nil
}

// Favorites returns the ids marked as favourite.
func (c *Collection) Favorites() ([]string, error) {
	var favs []string
	if _, err := c.store.LoadJSON(db.KeyFavoriteButterflies, &favs); err != nil {
		return nil, fmt.Errorf("load favourites: %w", err)
	}
	return favs, nil
}

// ToggleFavorite flips the favourite mark on id and reports the new state.
func (c *Collection) ToggleFavorite(id string) (bool, error) {
	favs, err := c.Favorites()
	if err != nil {
		return false, err
	}

	fav := true
	if i := slices.Index(favs, id); i >= 0 {
		favs = slices.Delete(favs, i, i+1)
		fav = false
	} else {
		favs = append(favs, id)
	}
	if favs == nil {
		favs = []string{}
	}
	if err := c.store.SaveJSON(db.KeyFavoriteButterflies, favs); err != nil {
		return false, fmt.Errorf("save favourites: %w", err)
	}
	return fav, nil
}

// ColorGroup is the butterflies of one colour.
type ColorGroup struct {
	Color       string
	Butterflies []Butterfly
}

// GroupByColor groups bs by colour, ordered by colour name.
func GroupByColor(bs []Butterfly) []ColorGroup {
	byColor := make(map[string][]Butterfly)
	for _, b := range bs {
		byColor[b.Color] = append(byColor[b.Color], b)
	}

	groups := make([]ColorGroup, 0, len(byColor))
	for color, members := range byColor {
		groups = append(groups, ColorGroup{Color: color, Butterflies: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Color < groups[j].Color })
	return groups
}
