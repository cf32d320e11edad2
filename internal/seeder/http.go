package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// errorSnippetLen bounds how much of an error body lands in messages.
const errorSnippetLen = 200

// probeClient is a small JSON client against a running service, used by
// the verification pass.
type probeClient struct {
	client  *http.Client
	baseURL string
}

func newProbeClient(baseURL string, timeout time.Duration) *probeClient {
	return &probeClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// checkHealth verifies the service answers on its health endpoint.
func (c *probeClient) checkHealth(ctx context.Context) error {
	body, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	_ = body
	return nil
}

// reindex asks the service to re-scan the corpus directory so files
// written by this run become searchable.
func (c *probeClient) reindex(ctx context.Context) error {
	if _, err := c.post(ctx, "/api/reindex", nil); err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	return nil
}

// chainProbe is one verification unit: the identity of a seeded chain and
// its canonical events as the service serves them. Events stay raw so the
// probe sends back exactly what it received.
type chainProbe struct {
	matchID    string
	sequenceID int
	events     []json.RawMessage
}

// plays fetches the canonical chains of one match.
func (c *probeClient) plays(ctx context.Context, matchID string) ([]chainProbe, error) {
	body, err := c.get(ctx, "/api/matches/"+matchID+"/plays")
	if err != nil {
		return nil, fmt.Errorf("fetch plays %s: %w", matchID, err)
	}

	var reply struct {
		Plays []struct {
			SequenceID int               `json:"sequenceId"`
			Events     []json.RawMessage `json:"events"`
		} `json:"plays"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode plays %s: %w", matchID, err)
	}

	probes := make([]chainProbe, 0, len(reply.Plays))
	for _, p := range reply.Plays {
		probes = append(probes, chainProbe{
			matchID:    matchID,
			sequenceID: p.SequenceID,
			events:     p.Events,
		})
	}
	return probes, nil
}

// searchHit is the slice of a ranked result the verifier inspects.
type searchHit struct {
	MatchID    string  `json:"matchId"`
	SequenceID int     `json:"sequenceId"`
	Similarity float64 `json:"similarity"`
}

// searchSequence posts a chain query and returns the ranked hits. The
// query carries no corpus reference, so the seeded chain itself stays
// eligible as a result.
func (c *probeClient) searchSequence(ctx context.Context, events []json.RawMessage, topN int) ([]searchHit, error) {
	req := struct {
		Events []json.RawMessage `json:"events"`
		TopN   int               `json:"topN"`
		Method string            `json:"method"`
	}{Events: events, TopN: topN, Method: "hybrid"}

	body, err := c.post(ctx, "/api/search/sequence", req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var reply struct {
		Results []searchHit `json:"results"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode search reply: %w", err)
	}
	return reply.Results, nil
}

func (c *probeClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *probeClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *probeClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, errorSnippet(data))
	}
	return data, nil
}

func errorSnippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > errorSnippetLen {
		s = s[:errorSnippetLen] + "..."
	}
	return s
}
