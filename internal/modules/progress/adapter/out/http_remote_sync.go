package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"focusflow/internal/modules/progress/domain"
	progressout "focusflow/internal/modules/progress/port/out"
	"focusflow/internal/platform/clock"
	apperrors "focusflow/internal/platform/errors"
)

const (
	syncPath        = "/api/progress/sync"
	loadPath        = "/api/progress/load"
	pullCacheKey    = "progress"
	pullCacheTTL    = 30 * time.Second
	maxResponseBody = 4 << 20
)

// HTTPRemoteSync talks to the progress endpoints of the account backend.
type HTTPRemoteSync struct {
	baseURL string
	token   string
	client  *http.Client
	cache   *gocache.Cache
}

func NewHTTPRemoteSync(baseURL, token string, timeout time.Duration) progressout.RemoteSync {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRemoteSync{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		cache:   gocache.New(pullCacheTTL, 2*pullCacheTTL),
	}
}

type wireSession struct {
	Date        time.Time `json:"date"`
	Duration    int       `json:"duration"`
	Mode        string    `json:"mode"`
	SessionType string    `json:"sessionType,omitempty"`
}

type wireProgress struct {
	TodayMinutes      int           `json:"todayMinutes"`
	TotalSessions     int           `json:"totalSessions"`
	Streak            int           `json:"streak"`
	LastSessionDate   *string       `json:"lastSessionDate"`
	TotalFocusTime    int           `json:"totalFocusTime"`
	CompletedSessions []wireSession `json:"completedSessions"`
}

type syncRequest struct {
	Progress wireProgress `json:"progress"`
}

type loadResponse struct {
	Success  bool         `json:"success"`
	Progress wireProgress `json:"progress"`
	Error    string       `json:"error"`
}

func (s *HTTPRemoteSync) Push(ctx context.Context, progress domain.Progress) error {
	body, err := json.Marshal(syncRequest{Progress: toWire(progress)})
	if err != nil {
		return fmt.Errorf("%w: encode progress: %v", apperrors.ErrSyncFailure, err)
	}
	if _, err := s.do(ctx, http.MethodPost, syncPath, body); err != nil {
		return err
	}
	s.cache.Delete(pullCacheKey)
	return nil
}

func (s *HTTPRemoteSync) Pull(ctx context.Context) (domain.Progress, error) {
	if cached, ok := s.cache.Get(pullCacheKey); ok {
		if p, ok := cached.(domain.Progress); ok {
			return p, nil
		}
	}
	payload, err := s.do(ctx, http.MethodGet, loadPath, nil)
	if err != nil {
		return domain.Progress{}, err
	}
	decoded := loadResponse{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.Progress{}, fmt.Errorf("%w: decode progress: %v", apperrors.ErrSyncFailure, err)
	}
	if !decoded.Success {
		return domain.Progress{}, fmt.Errorf("%w: %s", apperrors.ErrSyncFailure, decoded.Error)
	}
	p, err := fromWire(decoded.Progress)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("%w: %v", apperrors.ErrSyncFailure, err)
	}
	s.cache.SetDefault(pullCacheKey, p)
	return p, nil
}

func (s *HTTPRemoteSync) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrSyncFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrSyncFailure, method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrSyncFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: status %d", apperrors.ErrSyncFailure, method, path, resp.StatusCode)
	}
	return payload, nil
}

func toWire(p domain.Progress) wireProgress {
	w := wireProgress{
		TodayMinutes:      p.TodayMinutes,
		TotalSessions:     p.TotalSessions,
		Streak:            p.Streak,
		TotalFocusTime:    p.TotalFocusTime,
		CompletedSessions: make([]wireSession, 0, len(p.CompletedSessions)),
	}
	if p.LastSessionDate != "" {
		day := p.LastSessionDate
		w.LastSessionDate = &day
	}
	for _, s := range p.CompletedSessions {
		w.CompletedSessions = append(w.CompletedSessions, wireSession{
			Date:        s.Date,
			Duration:    s.Duration,
			Mode:        string(s.Mode),
			SessionType: s.SessionType,
		})
	}
	return w
}

// fromWire accepts lastSessionDate either as a plain day or as the ISO
// instant the backend stores it as.
func fromWire(w wireProgress) (domain.Progress, error) {
	p := domain.Progress{
		TodayMinutes:      w.TodayMinutes,
		TotalSessions:     w.TotalSessions,
		Streak:            w.Streak,
		TotalFocusTime:    w.TotalFocusTime,
		CompletedSessions: make([]domain.SessionRecord, 0, len(w.CompletedSessions)),
	}
	if w.LastSessionDate != nil && *w.LastSessionDate != "" {
		raw := *w.LastSessionDate
		if len(raw) < len(clock.DayLayout) {
			return domain.Progress{}, fmt.Errorf("invalid lastSessionDate %q", raw)
		}
		p.LastSessionDate = raw[:len(clock.DayLayout)]
	}
	for _, s := range w.CompletedSessions {
		mode, err := domain.ParseMode(s.Mode)
		if err != nil {
			mode = domain.ModeZen
		}
		p.CompletedSessions = append(p.CompletedSessions, domain.SessionRecord{
			Date:        s.Date,
			Duration:    s.Duration,
			Mode:        mode,
			SessionType: s.SessionType,
		})
	}
	if err := p.Validate(); err != nil {
		return domain.Progress{}, err
	}
	return p, nil
}
