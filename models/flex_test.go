package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_Decoding(t *testing.T) {
	var doc struct {
		A *FlexInt `json:"a"`
		B *FlexInt `json:"b"`
		C *FlexInt `json:"c"`
		D *FlexInt `json:"d"`
	}
	raw := `{"a": 250, "b": "250", "c": null, "d": "not a number"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, 250, doc.A.Int())
	assert.Equal(t, 250, doc.B.Int())
	assert.Nil(t, doc.C, "null stays distinguishable from zero")
	assert.Equal(t, 0, doc.D.Int())
}

func TestFlexInt_NilSafe(t *testing.T) {
	var f *FlexInt
	assert.Equal(t, 0, f.Int())
}

func TestFlexBool_Decoding(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"AVAILABLE"`, true},
		{`"available"`, true},
		{`"YES"`, true},
		{`"NO"`, false},
		{`1`, true},
		{`0`, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var b FlexBool
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &b))
			assert.Equal(t, tc.want, b.Bool())
		})
	}
}

func TestFlexString_Decoding(t *testing.T) {
	var doc struct {
		ID FlexString `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &doc))
	assert.Equal(t, "42", doc.ID.String())
}

func TestCatalogItem_DisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "CBC", CatalogItem{TestName: "CBC"}.DisplayName())
	assert.Equal(t, "Lipid Panel", CatalogItem{ProductName: "Lipid Panel"}.DisplayName())
	assert.Equal(t, "Vitamin D Total", CatalogItem{Slug: "vitamin-d-total"}.DisplayName())
	assert.Equal(t, "", CatalogItem{}.DisplayName())
}
