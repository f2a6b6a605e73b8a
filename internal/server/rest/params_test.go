package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	ts := newTestServer(t, Options{MaxPageSize: 50}, nil)

	tests := []struct {
		name    string
		query   string
		want    models.Page
		wantErr bool
	}{
		{name: "defaults", query: "", want: models.Page{Skip: 0, Limit: 10}},
		{name: "explicit", query: "?skip=5&limit=20", want: models.Page{Skip: 5, Limit: 20}},
		{name: "capped", query: "?limit=1000", want: models.Page{Limit: 50}},
		{name: "zero limit", query: "?limit=0", want: models.Page{Limit: 0}},
		{name: "negative skip", query: "?skip=-1", wantErr: true},
		{name: "not a number", query: "?limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/todos"+tt.query, nil)
			got, err := ts.page(r, 10)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?completed=true&title=", nil)

	b, err := queryBool(r, "completed")
	require.NoError(t, err)
	assert.True(t, *b)

	b, err = queryBool(r, "missing")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = queryBool(httptest.NewRequest(http.MethodGet, "/?completed=maybe", nil), "completed")
	assert.ErrorIs(t, err, common.ErrValidation)

	title := queryString(r, "title")
	require.NotNil(t, title)
	assert.Equal(t, "", *title)
	assert.Nil(t, queryString(r, "name"))
}
