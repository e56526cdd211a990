package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurant_LocationOrder(t *testing.T) {
	r := Restaurant{Location: [2]float64{34.0522, -118.2437}}

	assert.Equal(t, 34.0522, r.Latitude())
	assert.Equal(t, -118.2437, r.Longitude())
}

func TestRestaurant_OptionalFieldsOmitted(t *testing.T) {
	r := Restaurant{
		Name:        "Taco Stand",
		Location:    [2]float64{32.7157, -117.1611},
		Address:     "301 University Ave, San Diego, CA 92103",
		MainCuisine: "Mexican",
		YelpID:      "taco-stand-san-diego",
	}

	jsonBytes, err := json.Marshal(r)
	require.NoError(t, err)

	assert.NotContains(t, string(jsonBytes), `"rating"`)
	assert.NotContains(t, string(jsonBytes), `"price"`)
	assert.NotContains(t, string(jsonBytes), `"phone"`)
	assert.Contains(t, string(jsonBytes), `"location":[32.7157,-117.1611]`)

	var unmarshaled Restaurant
	err = json.Unmarshal(jsonBytes, &unmarshaled)
	require.NoError(t, err)
	assert.Nil(t, unmarshaled.Rating)
	assert.Equal(t, r.Location, unmarshaled.Location)
	assert.Equal(t, "Mexican", unmarshaled.MainCuisine)
}
