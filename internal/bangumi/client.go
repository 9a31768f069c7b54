// Package bangumi is a read-only client for the Bangumi subject/character
// API, with a persistent response cache in front of every lookup.
package bangumi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
}

func NewClient(baseURL string, timeout time.Duration, cache *Cache) *Client {
	if cache == nil {
		cache = NewCache(nil)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

// Cache exposes the client's response cache for the clear operation.
func (c *Client) Cache() *Cache {
	return c.cache
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	key := cacheKey(http.MethodGet, c.baseURL+path, nil)
	if body, ok := c.cache.get(key); ok {
		return json.Unmarshal(body, out)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, key, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	key := cacheKey(http.MethodPost, c.baseURL+path, encoded)
	if body, ok := c.cache.get(key); ok {
		return json.Unmarshal(body, out)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, key, out)
}

func (c *Client) do(req *http.Request, key string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bangumi: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	// Only successful responses are ever cached.
	c.cache.put(key, body)
	return json.Unmarshal(body, out)
}

func (c *Client) SubjectDetails(ctx context.Context, subjectID int) (*Subject, error) {
	var subject Subject
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/subjects/%d", subjectID), &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) CharacterDetails(ctx context.Context, characterID int) (*CharacterDetail, error) {
	var character CharacterDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/characters/%d", characterID), &character); err != nil {
		return nil, err
	}
	return &character, nil
}

func (c *Client) CharacterSubjects(ctx context.Context, characterID int) ([]RelatedSubject, error) {
	var subjects []RelatedSubject
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/characters/%d/subjects", characterID), &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *Client) CharacterPersons(ctx context.Context, characterID int) ([]RelatedPerson, error) {
	var persons []RelatedPerson
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/characters/%d/persons", characterID), &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (c *Client) SubjectCharacters(ctx context.Context, subjectID int) ([]SubjectCharacter, error) {
	var characters []SubjectCharacter
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/subjects/%d/characters", subjectID), &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

func (c *Client) SearchSubjects(ctx context.Context, req SearchRequest, limit, offset int) (*SearchResult, error) {
	var result SearchResult
	path := fmt.Sprintf("/v0/search/subjects?limit=%d&offset=%d", limit, offset)
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) IndexInfo(ctx context.Context, indexID int) (*Index, error) {
	var index Index
	if err := c.getJSON(ctx, fmt.Sprintf("/v0/indices/%d", indexID), &index); err != nil {
		return nil, err
	}
	return &index, nil
}

func (c *Client) IndexSubjects(ctx context.Context, indexID, limit, offset int) ([]SearchSubject, error) {
	var result indexSubjectsResult
	path := fmt.Sprintf("/v0/indices/%d/subjects?limit=%d&offset=%d", indexID, limit, offset)
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
