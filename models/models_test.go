package models_test

import (
	"encoding/json"
	"feedstitch/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRecordUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected models.Record
		wantErr  bool
	}{
		{
			name:     "numeric id",
			data:     `{"i_d":"42","po_si_tion":3,"te_xt":"hello"}`,
			expected: models.Record{ID: 42, Position: 3, Text: "hello"},
		},
		{
			name:     "non numeric id defaults to zero",
			data:     `{"i_d":"abc","po_si_tion":0,"te_xt":"x"}`,
			expected: models.Record{ID: 0, Position: 0, Text: "x"},
		},
		{
			name:     "empty id defaults to zero",
			data:     `{"i_d":"","po_si_tion":1,"te_xt":""}`,
			expected: models.Record{ID: 0, Position: 1, Text: ""},
		},
		{
			name:     "with thumbnail",
			data:     `{"i_d":"7","po_si_tion":1,"te_xt":"t","thumbnail_URL":"https://img.test/a.png"}`,
			expected: models.Record{ID: 7, Position: 1, Text: "t", ThumbnailURL: strPtr("https://img.test/a.png")},
		},
		{
			name:    "id sent as number",
			data:    `{"i_d":7,"po_si_tion":1,"te_xt":"t"}`,
			wantErr: true,
		},
		{
			name:    "missing id",
			data:    `{"po_si_tion":1,"te_xt":"t"}`,
			wantErr: true,
		},
		{
			name:    "missing position",
			data:    `{"i_d":"1","te_xt":"t"}`,
			wantErr: true,
		},
		{
			name:    "missing text",
			data:    `{"i_d":"1","po_si_tion":1}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			data:    `[]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record models.Record
			err := json.Unmarshal([]byte(tt.data), &record)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record)
		})
	}
}

func TestRecordMarshalWritesIdAsString(t *testing.T) {
	data, err := json.Marshal(models.Record{ID: 12, Position: 2, Text: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"i_d":"12","po_si_tion":2,"te_xt":"abc"}`, string(data))

	data, err = json.Marshal(models.Record{ID: 1, Position: 0, Text: "", ThumbnailURL: strPtr("https://img.test/x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"i_d":"1","po_si_tion":0,"te_xt":"","thumbnail_URL":"https://img.test/x"}`, string(data))
}

func TestFeedUnmarshal(t *testing.T) {
	var feed models.Feed
	err := json.Unmarshal([]byte(`{"models":[{"i_d":"1","po_si_tion":0,"te_xt":"a"},{"i_d":"2","po_si_tion":1,"te_xt":"b"}]}`), &feed)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{
		{ID: 1, Position: 0, Text: "a"},
		{ID: 2, Position: 1, Text: "b"},
	}, feed.Models)

	err = json.Unmarshal([]byte(`{"items":[]}`), &feed)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"models":[{"i_d":"1"}]}`), &feed)
	assert.Error(t, err)
}

func TestSection(t *testing.T) {
	items := []models.MergedItem{{Text: "a"}, {Text: "b", ThumbnailURL: strPtr("https://img.test/b")}}

	first := models.FirstSection(items)
	assert.Equal(t, models.SectionFirst, first.Kind)
	assert.Equal(t, items, first.Items())
	assert.Equal(t, "carousel", first.Layout())
	_, ok := first.Item()
	assert.False(t, ok)

	second := models.SecondSection(models.MergedItem{Text: "c"})
	assert.Equal(t, models.SectionSecond, second.Kind)
	assert.Equal(t, []models.MergedItem{{Text: "c"}}, second.Items())
	assert.Equal(t, "full-width", second.Layout())
	item, ok := second.Item()
	assert.True(t, ok)
	assert.Equal(t, "c", item.Text)

	data, err := json.Marshal([]models.Section{first, second})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"kind":"first","layout":"carousel","items":[{"text":"a"},{"text":"b","thumbnailURL":"https://img.test/b"}]},
		{"kind":"second","layout":"full-width","items":[{"text":"c"}]}
	]`, string(data))

	data, err = json.Marshal(models.FirstSection(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"first","layout":"carousel","items":[]}`, string(data))
}
