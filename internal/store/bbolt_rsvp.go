package store

import (
	"context"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

func (s *BBoltStore) GetConfig(_ context.Context, weddingID string) (*rsvp.Config, error) {
	var cfg *rsvp.Config
	err := s.viewRSVP(func(doc rsvpDocument) error {
		if c, ok := doc.Configs[weddingID]; ok {
			if c.Questions == nil {
				c.Questions = []rsvp.Question{}
			}
			cfg = &c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *BBoltStore) SaveConfig(_ context.Context, cfg rsvp.Config) error {
	return s.updateRSVP(func(doc *rsvpDocument) error {
		doc.Configs[cfg.WeddingID] = cfg
		return nil
	})
}

func (s *BBoltStore) ListResponses(_ context.Context, weddingID string, q rsvp.ResponseQuery) ([]rsvp.Response, int, error) {
	var (
		page  []rsvp.Response
		total int
	)
	err := s.viewRSVP(func(doc rsvpDocument) error {
		page, total = rsvp.ApplyQuery(doc.Responses[weddingID], q)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

func (s *BBoltStore) AllResponses(_ context.Context, weddingID string) ([]rsvp.Response, error) {
	var all []rsvp.Response
	err := s.viewRSVP(func(doc rsvpDocument) error {
		all = append([]rsvp.Response{}, doc.Responses[weddingID]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (s *BBoltStore) GetResponse(_ context.Context, weddingID, id string) (*rsvp.Response, error) {
	var found *rsvp.Response
	err := s.viewRSVP(func(doc rsvpDocument) error {
		for _, r := range doc.Responses[weddingID] {
			if r.ID == id {
				r := r
				found = &r
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *BBoltStore) CreateResponse(_ context.Context, r rsvp.Response) error {
	return s.updateRSVP(func(doc *rsvpDocument) error {
		doc.Responses[r.WeddingID] = append(doc.Responses[r.WeddingID], r)
		return nil
	})
}

func (s *BBoltStore) DeleteResponse(_ context.Context, weddingID, id string) error {
	return s.updateRSVP(func(doc *rsvpDocument) error {
		existing := doc.Responses[weddingID]
		kept := make([]rsvp.Response, 0, len(existing))
		for _, r := range existing {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		doc.Responses[weddingID] = kept
		return nil
	})
}
