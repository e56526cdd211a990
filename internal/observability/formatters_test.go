package observability

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jordan/restaurant-collector/internal/pipeline"
	"github.com/jordan/restaurant-collector/internal/types"
)

func sampleRestaurant(name, cuisine string, rating float64) types.Restaurant {
	return types.Restaurant{
		Name:        name,
		MainCuisine: cuisine,
		Rating:      &rating,
	}
}

func TestPrintLocationResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := pipeline.LocationResult{
		Location: "San Diego, CA",
		Status:   pipeline.StatusFound,
		Batch: pipeline.BatchResult{
			Written: 2,
			Skipped: 1,
			Restaurants: []types.Restaurant{
				sampleRestaurant("Taco Stand", "Mexican", 4.5),
				sampleRestaurant("Sushi Ota", "Japanese", 4.8),
			},
		},
	}

	p.PrintLocationResult(result)
	output := buf.String()

	assert.Contains(t, output, "COLLECTION PASS")
	assert.Contains(t, output, "San Diego, CA")
	assert.Contains(t, output, "found")
	assert.Contains(t, output, "Taco Stand")
	assert.Contains(t, output, "Mexican")
	assert.Contains(t, output, "4.5")
	assert.Contains(t, output, "Sushi Ota")
}

func TestPrintLocationResult_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var restaurants []types.Restaurant
	for i := 0; i < 8; i++ {
		restaurants = append(restaurants, sampleRestaurant(fmt.Sprintf("Place %d", i), "Mexican", 4.0))
	}

	result := pipeline.LocationResult{
		Location: "Los Angeles, CA",
		Status:   pipeline.StatusFound,
		Batch: pipeline.BatchResult{
			Written:     8,
			Restaurants: restaurants,
		},
	}

	p.PrintLocationResult(result)
	output := buf.String()

	assert.Contains(t, output, "Place 0")
	assert.Contains(t, output, "Place 4")
	assert.NotContains(t, output, "Place 5")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintLocationResult_FetchFailed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := pipeline.LocationResult{
		Location: "Fresno, CA",
		Status:   pipeline.StatusFetchFailed,
		Err:      errors.New("search request failed"),
	}

	p.PrintLocationResult(result)
	output := buf.String()

	assert.Contains(t, output, "fetch_failed")
	assert.Contains(t, output, "search request failed")
	assert.NotContains(t, output, "Written")
}

func TestPrintRecordErrors_WithFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	errs := []pipeline.RecordError{
		{Name: "Taco Stand", Err: errors.New("missing coordinates")},
		{Name: "", Err: errors.New("missing name")},
	}

	p.PrintRecordErrors(errs)
	output := buf.String()

	assert.Contains(t, output, "LISTING FAILURES")
	assert.Contains(t, output, "Taco Stand")
	assert.Contains(t, output, "missing coordinates")
	assert.Contains(t, output, "(unnamed)")
}

func TestPrintRecordErrors_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecordErrors(nil)

	assert.Contains(t, buf.String(), "NO LISTING FAILURES")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []pipeline.LocationResult{
		{
			Location: "San Diego, CA",
			Status:   pipeline.StatusFound,
			Batch:    pipeline.BatchResult{Written: 10, Skipped: 2, Failed: 1},
		},
		{
			Location: "Fresno, CA",
			Status:   pipeline.StatusFetchFailed,
			Err:      errors.New("boom"),
		},
	}

	p.PrintRunSummary(results)
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Locations:      2")
	assert.Contains(t, output, "Written:        10")
	assert.Contains(t, output, "Fetch failures: 1")
}

func TestPrintRunSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := pipeline.LocationResult{
		Location: "A Very Long Location Name That Should Be Truncated To Fit The Box Width",
		Status:   pipeline.StatusEmpty,
	}

	p.PrintLocationResult(result)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
	assert.Contains(t, output, "...")
}
