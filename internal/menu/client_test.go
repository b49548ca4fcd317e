package menu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetDishSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/menu/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 42,
			"name": "Margherita",
			"ingredients": [
				{"name": "Flour", "quantity": 0.3, "unit": "kg"},
				{"name": "Mozzarella", "quantity": 0.2, "unit": "kg"}
			]
		}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	dish, ok := client.GetDish(context.Background(), 42)
	require.True(t, ok)
	require.Equal(t, int64(42), dish.ID)
	require.Equal(t, "Margherita", dish.Name)
	require.Len(t, dish.Ingredients, 2)
	require.Equal(t, "Flour", dish.Ingredients[0].Name)
	require.Equal(t, 0.3, dish.Ingredients[0].Quantity)
}

func TestGetDishNotFoundReportsAbsence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, ok := client.GetDish(context.Background(), 7)
	require.False(t, ok)
}

func TestGetDishServerErrorFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, ok := client.GetDish(context.Background(), 7)
	require.False(t, ok)
}

func TestGetDishUnreachableServiceFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, nil)
	_, ok := client.GetDish(context.Background(), 7)
	require.False(t, ok)
}

func TestGetDishMalformedBodyFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": not-json`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, ok := client.GetDish(context.Background(), 7)
	require.False(t, ok)
}
