// Package store implements the rsvp and gallery storage ports on bbolt (the
// local demo store) and on PostgreSQL (the remote store).
package store

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

var bucketName = []byte("wedding")

// Each concern is one JSON document under a fixed key, partitioned by
// wedding id inside the document.
var (
	rsvpKey    = []byte("wedding_rsvp_data")
	galleryKey = []byte("wedding_gallery_data")
)

type rsvpDocument struct {
	Configs   map[string]rsvp.Config     `json:"configs"`
	Responses map[string][]rsvp.Response `json:"responses"`
}

type galleryDocument struct {
	Media    map[string][]gallery.MediaItem `json:"media"`
	Messages map[string][]gallery.Message   `json:"messages"`
}

type BBoltStore struct {
	db *bolt.DB
}

var (
	_ rsvp.Store    = (*BBoltStore)(nil)
	_ gallery.Store = (*BBoltStore)(nil)
)

func NewBBoltStore(path string) (*BBoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db at %s: %w", path, err)
	}

	// Reason: bucket must exist before any read/write operations
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating wedding bucket: %w", err)
	}

	return &BBoltStore{db: db}, nil
}

// decodeDocument unmarshals the value under key. Missing or corrupt data
// yields the zero document, never a partially filled one.
func decodeDocument[T any](b *bolt.Bucket, key []byte) T {
	var doc T
	data := b.Get(key)
	if data == nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		log.WithError(err).WithField("key", string(key)).Warn("corrupt document, treating as empty")
		var empty T
		return empty
	}
	return doc
}

func encodeDocument(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if err := b.Put(key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func readRSVP(tx *bolt.Tx) rsvpDocument {
	doc := decodeDocument[rsvpDocument](tx.Bucket(bucketName), rsvpKey)
	if doc.Configs == nil {
		doc.Configs = make(map[string]rsvp.Config)
	}
	if doc.Responses == nil {
		doc.Responses = make(map[string][]rsvp.Response)
	}
	return doc
}

func readGallery(tx *bolt.Tx) galleryDocument {
	doc := decodeDocument[galleryDocument](tx.Bucket(bucketName), galleryKey)
	if doc.Media == nil {
		doc.Media = make(map[string][]gallery.MediaItem)
	}
	if doc.Messages == nil {
		doc.Messages = make(map[string][]gallery.Message)
	}
	return doc
}

func (s *BBoltStore) viewRSVP(fn func(doc rsvpDocument) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(readRSVP(tx))
	})
}

// updateRSVP runs a read-modify-write of the RSVP document in one
// transaction. The document is only written back when fn returns nil.
func (s *BBoltStore) updateRSVP(fn func(doc *rsvpDocument) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		doc := readRSVP(tx)
		if err := fn(&doc); err != nil {
			return err
		}
		return encodeDocument(tx.Bucket(bucketName), rsvpKey, doc)
	})
}

func (s *BBoltStore) viewGallery(fn func(doc galleryDocument) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(readGallery(tx))
	})
}

func (s *BBoltStore) updateGallery(fn func(doc *galleryDocument) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		doc := readGallery(tx)
		if err := fn(&doc); err != nil {
			return err
		}
		return encodeDocument(tx.Bucket(bucketName), galleryKey, doc)
	})
}

// SeedData is demo content keyed by wedding id.
type SeedData struct {
	Configs   map[string]rsvp.Config         `json:"configs"`
	Responses map[string][]rsvp.Response     `json:"responses"`
	Media     map[string][]gallery.MediaItem `json:"media"`
	Messages  map[string][]gallery.Message   `json:"messages"`
}

// Seed loads demo content, skipping weddings that already have data of the
// same kind.
func (s *BBoltStore) Seed(data SeedData) error {
	err := s.updateRSVP(func(doc *rsvpDocument) error {
		for id, cfg := range data.Configs {
			if _, exists := doc.Configs[id]; exists {
				log.WithField("wedding_id", id).Debug("seed: rsvp config already exists, skipping")
				continue
			}
			cfg.WeddingID = id
			if cfg.Questions == nil {
				cfg.Questions = []rsvp.Question{}
			}
			doc.Configs[id] = cfg
			log.WithField("wedding_id", id).Info("seeded rsvp config")
		}
		for id, responses := range data.Responses {
			if len(doc.Responses[id]) > 0 {
				log.WithField("wedding_id", id).Debug("seed: rsvp responses already exist, skipping")
				continue
			}
			for i := range responses {
				responses[i].WeddingID = id
			}
			doc.Responses[id] = responses
			log.WithFields(log.Fields{"wedding_id": id, "count": len(responses)}).Info("seeded rsvp responses")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding rsvp data: %w", err)
	}

	err = s.updateGallery(func(doc *galleryDocument) error {
		for id, items := range data.Media {
			if len(doc.Media[id]) > 0 {
				continue
			}
			for i := range items {
				items[i].WeddingID = id
			}
			doc.Media[id] = items
			log.WithFields(log.Fields{"wedding_id": id, "count": len(items)}).Info("seeded media")
		}
		for id, msgs := range data.Messages {
			if len(doc.Messages[id]) > 0 {
				continue
			}
			for i := range msgs {
				msgs[i].WeddingID = id
			}
			doc.Messages[id] = msgs
			log.WithFields(log.Fields{"wedding_id": id, "count": len(msgs)}).Info("seeded guestbook messages")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding gallery data: %w", err)
	}
	return nil
}

func (s *BBoltStore) Close() error {
	return s.db.Close()
}
