package pricing

import (
	"testing"

	contractx "github.com/marova/sliceline/ordering/contract"
)

func defaultConfig() Config {
	return Config{TaxRate: 0.15, DeliveryFee: 4.99}
}

func TestEstimateBreakdown(t *testing.T) {
	t.Parallel()

	snap := TakeSnapshot([]contractx.Product{
		{Code: "14SCREEN", Qty: 2, Price: "12.99"},
	})
	b := Estimate(snap, defaultConfig())

	checks := map[string]string{
		"subtotal": "25.98",
		"tax":      "3.90",
		"fee":      "4.99",
		"total":    "34.87",
		"discount": "0.00",
	}
	got := map[string]string{
		"subtotal": b.Subtotal.StringFixed(2),
		"tax":      b.Tax.StringFixed(2),
		"fee":      b.DeliveryFee.StringFixed(2),
		"total":    b.Total.StringFixed(2),
		"discount": b.Discount.StringFixed(2),
	}
	for key, want := range checks {
		if got[key] != want {
			t.Fatalf("%s: expected %s, got %s", key, want, got[key])
		}
	}
}

func TestSnapshotFrozenBeforeMutation(t *testing.T) {
	t.Parallel()

	products := []contractx.Product{
		{Code: "14SCREEN", Qty: 2, Price: "12.99"},
	}
	snap := TakeSnapshot(products)

	// The vendor round trip overwrites line prices in the same slice; a
	// snapshot taken before must not see it.
	products[0].Price = "99.99"

	b := Estimate(snap, defaultConfig())
	if b.Subtotal.StringFixed(2) != "25.98" {
		t.Fatalf("snapshot leaked the mutation: subtotal=%s", b.Subtotal.StringFixed(2))
	}
}

func TestSnapshotDegradesOnBadPrice(t *testing.T) {
	t.Parallel()

	snap := TakeSnapshot([]contractx.Product{
		{Code: "GOOD", Qty: 1, Price: "10.00"},
		{Code: "MISSING", Qty: 3},
		{Code: "GARBAGE", Qty: 2, Price: "not-a-number"},
	})

	b := Estimate(snap, defaultConfig())
	if b.Subtotal.StringFixed(2) != "10.00" {
		t.Fatalf("bad prices must snapshot to zero, subtotal=%s", b.Subtotal.StringFixed(2))
	}
}

func TestViewAlwaysLabelledEstimated(t *testing.T) {
	t.Parallel()

	view := Estimate(nil, defaultConfig()).View()
	if !view.Estimated {
		t.Fatal("estimator output must carry the estimated label")
	}
	if view.Discount != 0 {
		t.Fatalf("estimator never models discounts, got %v", view.Discount)
	}
}
