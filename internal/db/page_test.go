package db_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/dbtest"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
)

func TestListOptionsNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   db.ListOptions
		want db.ListOptions
	}{
		{name: "zero", in: db.ListOptions{}, want: db.ListOptions{Page: 1, PageSize: db.DefaultPageSize}},
		{name: "negative", in: db.ListOptions{Page: -3, PageSize: -1}, want: db.ListOptions{Page: 1, PageSize: db.DefaultPageSize}},
		{name: "too large", in: db.ListOptions{Page: 2, PageSize: 1000}, want: db.ListOptions{Page: 2, PageSize: db.MaxPageSize}},
		{name: "search trimmed", in: db.ListOptions{Page: 1, PageSize: 5, Search: "  edit "}, want: db.ListOptions{Page: 1, PageSize: 5, Search: "edit"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestFetch(t *testing.T) {
	gdb := dbtest.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 7; i++ {
		require.NoError(t, gdb.Create(&models.Permission{
			Module:    "users",
			Label:     fmt.Sprintf("Perm %d", i),
			Name:      fmt.Sprintf("perm-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	testCases := []struct {
		name       string
		opts       db.ListOptions
		wantNames  []string
		wantPage   int
		wantPages  int
		wantTotal  int64
		wantHasNxt bool
	}{
		{
			name:       "first page newest first",
			opts:       db.ListOptions{Page: 1, PageSize: 3},
			wantNames:  []string{"perm-7", "perm-6", "perm-5"},
			wantPage:   1,
			wantPages:  3,
			wantTotal:  7,
			wantHasNxt: true,
		},
		{
			name:      "last page partial",
			opts:      db.ListOptions{Page: 3, PageSize: 3},
			wantNames: []string{"perm-1"},
			wantPage:  3,
			wantPages: 3,
			wantTotal: 7,
		},
		{
			name:      "beyond last page clamps",
			opts:      db.ListOptions{Page: 42, PageSize: 3},
			wantNames: []string{"perm-1"},
			wantPage:  3,
			wantPages: 3,
			wantTotal: 7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := db.Fetch[models.Permission](gdb.Model(&models.Permission{}), tc.opts)
			require.NoError(t, err)

			names := make([]string, 0, len(page.Items))
			for _, p := range page.Items {
				names = append(names, p.Name)
			}

			assert.Equal(t, tc.wantNames, names)
			assert.Equal(t, tc.wantPage, page.Page)
			assert.Equal(t, tc.wantPages, page.TotalPages)
			assert.Equal(t, tc.wantTotal, page.TotalItems)
			assert.Equal(t, tc.wantHasNxt, page.HasNext())
		})
	}
}

func TestFetchEmpty(t *testing.T) {
	gdb := dbtest.New(t)

	page, err := db.Fetch[models.Role](gdb.Model(&models.Role{}), db.ListOptions{Page: 5})
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, int64(0), page.TotalItems)
	assert.False(t, page.HasPrev())
	assert.False(t, page.HasNext())
}
