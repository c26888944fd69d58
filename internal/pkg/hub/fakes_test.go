package hub

import (
	"context"

	"github.com/ManuelReschke/PlugSync/app/models"
)

type memoryTokens struct {
	tokens []*models.InstallToken
	saves  int
}

func (r *memoryTokens) FindByToken(_ context.Context, token string) (*models.InstallToken, error) {
	for _, t := range r.tokens {
		if t.Token == token {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memoryTokens) ListEntities(_ context.Context, limit int, includeDisabled bool) ([]models.InstallToken, error) {
	var out []models.InstallToken
	for _, t := range r.tokens {
		if !includeDisabled && (t.Used || t.IsForceExpired()) {
			continue
		}
		out = append(out, *t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memoryTokens) Save(_ context.Context, token *models.InstallToken) error {
	r.saves++
	if token.ID == 0 {
		token.ID = uint(len(r.tokens) + 1)
		c := *token
		r.tokens = append(r.tokens, &c)
		return nil
	}
	for _, t := range r.tokens {
		if t.ID == token.ID {
			*t = *token
		}
	}
	return nil
}

func (r *memoryTokens) active() []*models.InstallToken {
	var out []*models.InstallToken
	for _, t := range r.tokens {
		if !t.Used && !t.IsForceExpired() {
			out = append(out, t)
		}
	}
	return out
}

type memorySettings struct {
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: map[string]string{}}
}

func (s *memorySettings) GetValue(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *memorySettings) SetValue(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memorySettings) DeleteValue(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type fakeClient struct {
	payload  *CommandPayload
	err      error
	requests []AccessTokenRequest
}

func (c *fakeClient) RequestAccessToken(_ context.Context, req AccessTokenRequest) (*CommandPayload, error) {
	c.requests = append(c.requests, req)
	return c.payload, c.err
}
