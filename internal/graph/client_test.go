package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerAuth is a test Authenticator that attaches a fixed token.
type headerAuth struct {
	token string
}

func (h *headerAuth) Authenticate(req *http.Request) {
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// pagedListServer serves /me/todo/lists split across the given pages.
func pagedListServer(t *testing.T, pages [][]TaskList) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageIdx := 0
		if p := r.URL.Query().Get("page"); p != "" {
			_, err := fmt.Sscanf(p, "%d", &pageIdx)
			require.NoError(t, err)
		}
		require.Less(t, pageIdx, len(pages))

		resp := map[string]any{"value": pages[pageIdx]}
		if pageIdx+1 < len(pages) {
			resp["@odata.nextLink"] = fmt.Sprintf("%s/me/todo/lists?page=%d", server.URL, pageIdx+1)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	return server
}

func makeLists(n int) []TaskList {
	lists := make([]TaskList, n)
	for i := range lists {
		lists[i] = TaskList{ID: fmt.Sprintf("list-%d", i), DisplayName: fmt.Sprintf("List %d", i)}
	}
	return lists
}

func splitPages(lists []TaskList, pageCount int) [][]TaskList {
	pages := make([][]TaskList, pageCount)
	per := (len(lists) + pageCount - 1) / pageCount
	for i := range pages {
		start := i * per
		end := start + per
		if end > len(lists) {
			end = len(lists)
		}
		pages[i] = lists[start:end]
	}
	return pages
}

func TestClient_TaskLists_Pagination(t *testing.T) {
	for _, pageCount := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d pages", pageCount), func(t *testing.T) {
			want := makeLists(10)
			server := pagedListServer(t, splitPages(want, pageCount))
			defer server.Close()

			client := NewClient(&headerAuth{token: "tok"}, WithBaseURL(server.URL))
			got, err := client.TaskLists(context.Background())
			require.NoError(t, err)

			// Concatenation of all pages in original order.
			assert.Equal(t, want, got)
		})
	}
}

func TestClient_Tasks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/todo/lists/list-1/tasks", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": [
			{"id": "t1", "title": "Buy milk", "status": "notStarted"},
			{"id": "t2", "title": "Call mom", "status": "completed"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(&headerAuth{token: "tok"}, WithBaseURL(server.URL))
	tasks, err := client.Tasks(context.Background(), "list-1")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed())
	assert.True(t, tasks[1].Completed())
}

func TestClient_CurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u1", "displayName": "Jane Doe", "userPrincipalName": "jane@example.test"}`))
	}))
	defer server.Close()

	client := NewClient(&headerAuth{token: "tok"}, WithBaseURL(server.URL))
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.Equal(t, "jane@example.test", user.Email())
}

func TestClient_ErrorsPropagate(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorised},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(&headerAuth{}, WithBaseURL(server.URL))
			_, err := client.TaskLists(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_UnmappedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(&headerAuth{}, WithBaseURL(server.URL))
	_, err := client.TaskLists(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.NotContains(t, err.Error(), "%!w")
}

func TestClient_MidPaginationErrorDropsPartialResult(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"value": [{"id": "l1", "displayName": "One"}], "@odata.nextLink": %q}`,
			server.URL+"/me/todo/lists?page=1")
	}))
	defer server.Close()

	client := NewClient(&headerAuth{}, WithBaseURL(server.URL))
	lists, err := client.TaskLists(context.Background())
	require.Error(t, err)
	assert.Nil(t, lists)
}
