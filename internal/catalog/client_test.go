package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListExercises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workouts/assets/", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "10", q.Get("limit"))
		require.Equal(t, "legs", q.Get("category"))
		require.Equal(t, "squat", q.Get("search"))

		json.NewEncoder(w).Encode(Page{
			Exercises: []Exercise{{ID: 1, Title: "Back squat", Category: "legs"}},
			Total:     1,
			Page:      2,
			Limit:     10,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	page, err := c.ListExercises(context.Background(), ListParams{
		Page: 2, Limit: 10, Category: "legs", Search: "squat",
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Exercises, 1)
	require.Equal(t, "Back squat", page.Exercises[0].Title)
}

func TestGetExercise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workouts/assets/7", r.URL.Path)
		json.NewEncoder(w).Encode(Exercise{ID: 7, Title: "Plank", Category: "core"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	ex, err := c.GetExercise(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Plank", ex.Title)
}

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workouts/assets/categories", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"legs", "core", "back"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"legs", "core", "back"}, cats)
}

func TestNonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}
