package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultAPIHost = "https://lichess.org/"

var rateLimitCooloff = time.Minute
var rateLimitRetries = 4
var ErrRateLimited = errors.New("api: request was rate limited on each attempt")

// APIError is a non-200 reply from lichess.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type LichessClient struct {
	apiHost string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger

	rateLimitMu   sync.Mutex
	rateLimitTime time.Time
}

func NewLichessClient(apiHost string, apiKey string, logger zerolog.Logger) *LichessClient {
	if apiHost == "" {
		apiHost = DefaultAPIHost
	}
	return &LichessClient{
		apiHost: strings.TrimRight(apiHost, "/") + "/",
		apiKey:  apiKey,
		client: &http.Client{
			CheckRedirect: redirectPolicyFunc(apiKey),
		},
		logger: logger,
	}
}

// Redirects remove the authorization header and by default redirect using a
// GET request. Lichess has privately moved its API so we need to handle these
// two cases directly.
func redirectPolicyFunc(apiKey string) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Method = via[0].Method
		return nil
	}
}

func (lc *LichessClient) newRequest(ctx context.Context, method, apiUrl string, params url.Values) (*http.Request, error) {
	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}
	url := lc.apiHost + strings.Trim(apiUrl, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+lc.apiKey)
	if params != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

type requestError struct {
	Error string
}

func (lc *LichessClient) doRequest(req *http.Request) (*http.Response, error) {
	for attempts := 0; attempts < rateLimitRetries; attempts++ {
		cooloff := lc.getRateLimitCooloff()
		if cooloff != 0 {
			lc.logger.Warn().Dur("cooloff", cooloff).Msg("api: rate limited, sleeping")
			select {
			case <-time.After(cooloff):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		// The body, if any, is consumed by each attempt.
		if attempts > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}

		res, err := lc.client.Do(req)
		if err != nil {
			return nil, err
		}

		// We were rate limited.
		if res.StatusCode == http.StatusTooManyRequests {
			res.Body.Close()
			lc.setRateLimitTime(time.Now())
			continue
		}

		// An error occurred.
		if res.StatusCode != http.StatusOK {
			defer res.Body.Close()
			bytes, err := io.ReadAll(res.Body)
			if err != nil {
				return nil, err
			}

			lichessError := requestError{}
			if json.Unmarshal(bytes, &lichessError) != nil || lichessError.Error == "" {
				lichessError.Error = strings.TrimSpace(string(bytes))
			}
			lc.logger.Debug().Int("status", res.StatusCode).Str("url", req.URL.String()).Msg(lichessError.Error)
			return nil, &APIError{Status: res.StatusCode, Message: lichessError.Error}
		}

		return res, nil
	}

	return nil, ErrRateLimited
}

func (lc *LichessClient) doJSONRequest(req *http.Request, buffer interface{}) error {
	res, err := lc.doRequest(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return json.NewDecoder(res.Body).Decode(buffer)
}

// doPost discards the reply body.
func (lc *LichessClient) doPost(ctx context.Context, apiUrl string, params url.Values) error {
	req, err := lc.newRequest(ctx, http.MethodPost, apiUrl, params)
	if err != nil {
		return err
	}

	res, err := lc.doRequest(req)
	if err != nil {
		return err
	}
	res.Body.Close()
	return nil
}

func (lc *LichessClient) getRateLimitTime() time.Time {
	lc.rateLimitMu.Lock()
	defer lc.rateLimitMu.Unlock()

	return lc.rateLimitTime
}

func (lc *LichessClient) setRateLimitTime(rateLimitTime time.Time) {
	lc.rateLimitMu.Lock()
	defer lc.rateLimitMu.Unlock()

	lc.rateLimitTime = rateLimitTime
}

// getRateLimitCooloff is how long to wait before the next request.
func (lc *LichessClient) getRateLimitCooloff() time.Duration {
	rateLimitTime := lc.getRateLimitTime()
	if rateLimitTime.IsZero() {
		return 0
	}

	if left := rateLimitCooloff - time.Since(rateLimitTime); left > 0 {
		return left
	}
	return 0
}

// streamJSON decodes newline delimited JSON from res onto a channel until
// the stream ends or ctx is done. Lichess sends blank keep-alive lines, which
// the decoder skips.
func streamJSON[T any](ctx context.Context, logger zerolog.Logger, name string, res *http.Response) <-chan T {
	ch := make(chan T)
	go func() {
		defer res.Body.Close()
		defer close(ch)
		decoder := json.NewDecoder(res.Body)

		for decoder.More() {
			var msg T
			if err := decoder.Decode(&msg); err != nil {
				if ctx.Err() == nil {
					logger.Warn().Err(err).Str("stream", name).Msg("api: stream decode")
				}
				return
			}

			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
