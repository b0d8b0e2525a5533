package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labprobe/client"
	"labprobe/models"
)

// fakeExecutor answers catalog searches from a fixed query table.
type fakeExecutor struct {
	results map[string][]models.CatalogItem
	failOn  map[string]bool
	queries []string
}

func (f *fakeExecutor) Do(_ context.Context, req client.Request) (client.Response, error) {
	body, _ := json.Marshal(req.Body)
	var parsed struct {
		Search string `json:"search"`
	}
	_ = json.Unmarshal(body, &parsed)
	f.queries = append(f.queries, parsed.Search)

	if f.failOn[parsed.Search] {
		return client.Response{}, errors.New("backend unavailable")
	}

	data, _ := json.Marshal(f.results[parsed.Search])
	raw, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"msg":     "ok",
		"data":    json.RawMessage(data),
	})
	return client.Response{Status: 200, Body: raw}, nil
}

func item(id, name string) models.CatalogItem {
	return models.CatalogItem{ProductID: id, TestName: name}
}

func TestQueryVariants_Order(t *testing.T) {
	got := queryVariants("Vitamin D - 25 Hydroxy")

	require.NotEmpty(t, got)
	assert.Equal(t, "Vitamin D - 25 Hydroxy", got[0], "the original spelling goes first")
	assert.Contains(t, got, "Vitamin D-25 Hydroxy")
	assert.Contains(t, got, "Vitamin D")
}

func TestQueryVariants_NoDuplicates(t *testing.T) {
	got := queryVariants("CBC")
	assert.Equal(t, []string{"CBC"}, got)
}

func TestPickMatch_ExactBeatsSubstring(t *testing.T) {
	items := []models.CatalogItem{
		item("p1", "CBC with ESR"),
		item("p2", "cbc"),
	}
	matched, ok := pickMatch("CBC", items)
	require.True(t, ok)
	assert.Equal(t, "p2", matched.ProductID)
}

func TestPickMatch_DashInsensitive(t *testing.T) {
	items := []models.CatalogItem{item("p1", "Vitamin-D")}
	matched, ok := pickMatch("Vitamin D", items)
	require.True(t, ok)
	assert.Equal(t, "p1", matched.ProductID)
}

func TestPickMatch_FirstInResponseOrderWins(t *testing.T) {
	items := []models.CatalogItem{
		item("p1", "Thyroid Profile"),
		item("p2", "Thyroid Profile"),
	}
	matched, ok := pickMatch("Thyroid Profile", items)
	require.True(t, ok)
	assert.Equal(t, "p1", matched.ProductID)
}

func TestPickMatch_NoHit(t *testing.T) {
	_, ok := pickMatch("Ferritin", []models.CatalogItem{item("p1", "CBC")})
	assert.False(t, ok)
}

func TestResolveProducts_StoresUnderCanonicalName(t *testing.T) {
	exec := &fakeExecutor{
		results: map[string][]models.CatalogItem{
			"Vitamin D-25 Hydroxy": {item("p1", "Vitamin D-25 Hydroxy")},
		},
		failOn: map[string]bool{},
	}
	svc := &DefaultCatalogService{Exec: exec}
	session := models.NewCustomerSession(models.ActorMember)

	err := svc.ResolveProducts(context.Background(), session, []string{"Vitamin D - 25 Hydroxy"}, Filter{LocationID: "loc-1"})
	require.NoError(t, err)

	_, found := session.Items["Vitamin D-25 Hydroxy"]
	assert.True(t, found, "the item is keyed by the name the catalog uses, not the query")
}

func TestResolveProducts_ToleratesPartialFailure(t *testing.T) {
	exec := &fakeExecutor{
		results: map[string][]models.CatalogItem{
			"CBC": {item("p1", "CBC")},
		},
		failOn: map[string]bool{"Ghost Panel": true, "Ghost": true},
	}
	svc := &DefaultCatalogService{Exec: exec}
	session := models.NewCustomerSession(models.ActorMember)

	err := svc.ResolveProducts(context.Background(), session, []string{"CBC", "Ghost Panel"}, Filter{LocationID: "loc-1"})
	require.NoError(t, err, "one unmatched name does not fail resolution")
	assert.Len(t, session.Items, 1)
}

func TestResolveProducts_AllMissesFail(t *testing.T) {
	exec := &fakeExecutor{results: map[string][]models.CatalogItem{}, failOn: map[string]bool{}}
	svc := &DefaultCatalogService{Exec: exec}
	session := models.NewCustomerSession(models.ActorMember)

	err := svc.ResolveProducts(context.Background(), session, []string{"Nothing Real"}, Filter{LocationID: "loc-1"})
	assert.ErrorIs(t, err, ErrNoProductsMatched)
}

func TestResolveProducts_TriesVariantsUntilHit(t *testing.T) {
	exec := &fakeExecutor{
		results: map[string][]models.CatalogItem{
			"Thyroid Profile-Total": {item("p1", "Thyroid Profile-Total")},
		},
		failOn: map[string]bool{},
	}
	svc := &DefaultCatalogService{Exec: exec}
	session := models.NewCustomerSession(models.ActorNonMember)

	err := svc.ResolveProducts(context.Background(), session, []string{"Thyroid Profile - Total"}, Filter{LocationID: "loc-1"})
	require.NoError(t, err)

	require.NotEmpty(t, exec.queries)
	assert.Equal(t, "Thyroid Profile - Total", exec.queries[0], "the original spelling is tried first")
	assert.Len(t, session.Items, 1)
}
