package directory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labprobe/client"
)

type countingExecutor struct {
	calls int
}

func (c *countingExecutor) Do(_ context.Context, req client.Request) (client.Response, error) {
	c.calls++
	var data interface{}
	switch req.Path {
	case client.PathGetLocations:
		data = []map[string]string{
			{"guid": "loc-1", "name": "Madhapur", "city": "Hyderabad"},
			{"guid": "loc-2", "name": "Gachibowli", "city": "Hyderabad"},
		}
	case client.PathGetAllBrands:
		data = []map[string]string{{"guid": "brand-1", "name": "Diagnostics"}}
	}
	raw, _ := json.Marshal(map[string]interface{}{"success": true, "msg": "ok", "data": data})
	return client.Response{Status: 200, Body: raw}, nil
}

func TestLocationByName_CaseInsensitive(t *testing.T) {
	svc := &DefaultDirectoryService{Exec: &countingExecutor{}}

	loc, err := svc.LocationByName(context.Background(), "  madhapur ")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", loc.GUID)
}

func TestLocationByName_NotFound(t *testing.T) {
	svc := &DefaultDirectoryService{Exec: &countingExecutor{}}

	_, err := svc.LocationByName(context.Background(), "Atlantis")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "location", notFound.Kind)
}

func TestLocationByName_CachesAcrossLookups(t *testing.T) {
	exec := &countingExecutor{}
	svc := &DefaultDirectoryService{Exec: exec}

	_, err := svc.LocationByName(context.Background(), "Madhapur")
	require.NoError(t, err)
	_, err = svc.LocationByName(context.Background(), "Gachibowli")
	require.NoError(t, err)

	assert.Equal(t, 1, exec.calls, "the second lookup hits the in-process cache")
}

func TestRefresh_DropsCache(t *testing.T) {
	exec := &countingExecutor{}
	svc := &DefaultDirectoryService{Exec: exec}

	_, err := svc.LocationByName(context.Background(), "Madhapur")
	require.NoError(t, err)

	svc.Refresh()

	_, err = svc.LocationByName(context.Background(), "Madhapur")
	require.NoError(t, err)
	assert.Equal(t, 2, exec.calls)
}

func TestBrandByName(t *testing.T) {
	svc := &DefaultDirectoryService{Exec: &countingExecutor{}}

	brand, err := svc.BrandByName(context.Background(), "diagnostics")
	require.NoError(t, err)
	assert.Equal(t, "brand-1", brand.GUID)
}
