package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	progressout "focusflow/internal/modules/progress/adapter/out"
	"focusflow/internal/modules/progress/domain"
	apperrors "focusflow/internal/platform/errors"
)

func TestHTTPRemoteSyncPushSendsBearerAndDay(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var gotBody map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/progress/sync", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		payload, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(payload, &gotBody)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	remote := progressout.NewHTTPRemoteSync(srv.URL+"/", "tok-123", time.Second)
	p := domain.Default().ApplyCompletion(domain.SessionRecord{
		Date: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), Duration: 90, Mode: domain.ModeAchievement, SessionType: "deep-work",
	}, "2024-05-06")
	require.NoError(t, remote.Push(context.Background(), p))

	require.Equal(t, "Bearer tok-123", gotAuth)
	progress := gotBody["progress"]
	require.Equal(t, "2024-05-06", progress["lastSessionDate"])
	require.EqualValues(t, 90, progress["totalFocusTime"])
	require.Len(t, progress["completedSessions"], 1)
}

func TestHTTPRemoteSyncPushSendsNullDayForFreshProgress(t *testing.T) {
	t.Parallel()
	var raw map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(payload, &raw)
	}))
	defer srv.Close()

	require.NoError(t, progressout.NewHTTPRemoteSync(srv.URL, "t", time.Second).Push(context.Background(), domain.Default()))
	value, ok := raw["progress"]["lastSessionDate"]
	require.True(t, ok)
	require.Nil(t, value)
}

func TestHTTPRemoteSyncPullTruncatesInstantAndCaches(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/progress/load", r.URL.Path)
		hits.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"progress":{
			"todayMinutes":25,"totalSessions":3,"streak":2,
			"lastSessionDate":"2024-05-06T18:00:00.000Z","totalFocusTime":75,
			"completedSessions":[{"date":"2024-05-06T18:00:00Z","duration":25,"mode":"unknown","sessionType":"quick-focus"}]}}`))
	}))
	defer srv.Close()

	remote := progressout.NewHTTPRemoteSync(srv.URL, "t", time.Second)
	p, err := remote.Pull(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-05-06", p.LastSessionDate)
	require.Equal(t, 3, p.TotalSessions)
	require.Len(t, p.CompletedSessions, 1)
	require.Equal(t, domain.ModeZen, p.CompletedSessions[0].Mode)

	_, err = remote.Pull(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load(), "second pull should be served from cache")
}

func TestHTTPRemoteSyncPushInvalidatesPullCache(t *testing.T) {
	t.Parallel()
	var loads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/progress/load" {
			loads.Add(1)
			_, _ = w.Write([]byte(`{"success":true,"progress":{"totalSessions":1,"lastSessionDate":null,"completedSessions":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	remote := progressout.NewHTTPRemoteSync(srv.URL, "t", time.Second)
	_, err := remote.Pull(context.Background())
	require.NoError(t, err)
	require.NoError(t, remote.Push(context.Background(), domain.Default()))
	_, err = remote.Pull(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, loads.Load())
}

func TestHTTPRemoteSyncFailuresWrapSyncFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/progress/load" {
			_, _ = w.Write([]byte(`{"success":false,"error":"No progress found"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	remote := progressout.NewHTTPRemoteSync(srv.URL, "t", time.Second)
	err := remote.Push(context.Background(), domain.Default())
	require.True(t, errors.Is(err, apperrors.ErrSyncFailure), "got %v", err)

	_, err = remote.Pull(context.Background())
	require.True(t, errors.Is(err, apperrors.ErrSyncFailure), "got %v", err)
	require.Contains(t, err.Error(), "No progress found")
}
