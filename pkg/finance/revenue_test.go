package finance

import "testing"

func TestAggregateRevenue(t *testing.T) {
	w := mustWindow(t, "2025-01", 3)

	products := []Product{
		{
			Name:     "Widget",
			Price:    10,
			UnitCOGS: 6,
			Active:   true,
			Volumes: []MonthVolume{
				{Year: 2025, Month: 1, Quantity: 100},
				{Year: 2025, Month: 3, Quantity: 50},
			},
		},
		{
			Name:     "Gadget",
			Price:    25,
			UnitCOGS: 20,
			Active:   true,
			Volumes: []MonthVolume{
				{Year: 2025, Month: 1, Quantity: 4},
				{Year: 2025, Month: 2, Quantity: 8},
			},
		},
	}

	series := AggregateRevenue(w, products)

	assertSeries(t, "revenue", series.Revenue, []float64{1100, 200, 500})
	assertSeries(t, "cogs", series.COGS, []float64{680, 160, 300})
}

func TestAggregateRevenueDropsOutOfWindowVolumes(t *testing.T) {
	w := mustWindow(t, "2025-01", 2)

	products := []Product{
		{
			Name:     "Widget",
			Price:    10,
			UnitCOGS: 5,
			Volumes: []MonthVolume{
				{Year: 2024, Month: 12, Quantity: 1000},
				{Year: 2025, Month: 2, Quantity: 10},
				{Year: 2025, Month: 3, Quantity: 1000},
			},
		},
	}

	series := AggregateRevenue(w, products)

	assertSeries(t, "revenue", series.Revenue, []float64{0, 100})
	assertSeries(t, "cogs", series.COGS, []float64{0, 50})
}

func TestAggregateRevenueIncludesInactiveProducts(t *testing.T) {
	w := mustWindow(t, "2025-01", 1)

	products := []Product{
		{
			Name:     "Discontinued",
			Price:    3,
			UnitCOGS: 1,
			Active:   false,
			Volumes:  []MonthVolume{{Year: 2025, Month: 1, Quantity: 10}},
		},
	}

	series := AggregateRevenue(w, products)
	assertSeries(t, "revenue", series.Revenue, []float64{30})
	assertSeries(t, "cogs", series.COGS, []float64{10})
}

func TestAggregateRevenueNoProducts(t *testing.T) {
	w := mustWindow(t, "2025-01", 4)
	series := AggregateRevenue(w, nil)
	assertSeries(t, "revenue", series.Revenue, []float64{0, 0, 0, 0})
	assertSeries(t, "cogs", series.COGS, []float64{0, 0, 0, 0})
}
