package seed

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/store"
)

// Seeder is the store that receives demo data.
type Seeder interface {
	Seed(data store.SeedData) error
}

// LoadFromFile reads demo data from a JSON file and populates the store.
// Weddings that already have data are left untouched. Returns nil if path
// is empty (seeding disabled).
func LoadFromFile(path string, s Seeder) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var data store.SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"configs":  len(data.Configs),
		"weddings": weddingCount(data),
	}).Info("seeding demo data from file")

	return s.Seed(data)
}

func weddingCount(data store.SeedData) int {
	ids := make(map[string]struct{})
	for id := range data.Configs {
		ids[id] = struct{}{}
	}
	for id := range data.Responses {
		ids[id] = struct{}{}
	}
	for id := range data.Media {
		ids[id] = struct{}{}
	}
	for id := range data.Messages {
		ids[id] = struct{}{}
	}
	return len(ids)
}
