package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	catalogx "github.com/marova/sliceline/ordering/catalog"
	contractx "github.com/marova/sliceline/ordering/contract"
	guardx "github.com/marova/sliceline/ordering/guard"
	pricingx "github.com/marova/sliceline/ordering/pricing"
	statex "github.com/marova/sliceline/ordering/state"
	configx "github.com/marova/sliceline/pkg/config"
)

type fakeClient struct {
	findFn     func(contractx.Address, string) ([]contractx.StoreSummary, error)
	menuFn     func(string) (*contractx.RawMenu, error)
	validateFn func(*contractx.OrderDraft) error
	priceFn    func(*contractx.OrderDraft) error
	trackFn    func(string, string) ([]contractx.TrackedOrder, error)

	menuCalls int
}

func (f *fakeClient) FindStores(_ context.Context, addr contractx.Address, serviceType string) ([]contractx.StoreSummary, error) {
	if f.findFn != nil {
		return f.findFn(addr, serviceType)
	}
	return nil, nil
}

func (f *fakeClient) GetMenu(_ context.Context, storeID string) (*contractx.RawMenu, error) {
	f.menuCalls++
	if f.menuFn != nil {
		return f.menuFn(storeID)
	}
	return &contractx.RawMenu{}, nil
}

func (f *fakeClient) ValidateOrder(_ context.Context, draft *contractx.OrderDraft) error {
	if f.validateFn != nil {
		return f.validateFn(draft)
	}
	return nil
}

func (f *fakeClient) PriceOrder(_ context.Context, draft *contractx.OrderDraft) error {
	if f.priceFn != nil {
		return f.priceFn(draft)
	}
	return nil
}

func (f *fakeClient) PlaceOrder(context.Context, *contractx.OrderDraft, contractx.Payment) error {
	return nil
}

func (f *fakeClient) TrackOrder(_ context.Context, phone, storeID string) ([]contractx.TrackedOrder, error) {
	if f.trackFn != nil {
		return f.trackFn(phone, storeID)
	}
	return nil, nil
}

func testProfile() *configx.OrderProfile {
	return &configx.OrderProfile{
		Customer: contractx.Customer{FirstName: "Pat", Phone: "555-0142"},
		Address: contractx.Address{
			Street:     "123 Main St",
			City:       "Toronto",
			Region:     "ON",
			PostalCode: "M5V 1A1",
			Country:    "ca",
		},
		Payment: contractx.Payment{CardNumber: "4100123456789012"},
		Preferences: configx.Preferences{
			OrderType:      "Delivery",
			MaxOrderAmount: 100,
		},
	}
}

func newTestService(t *testing.T, client *fakeClient, profile *configx.OrderProfile) (*Service, *statex.Session) {
	t.Helper()
	ctx := context.Background()
	session := statex.NewSession(ctx, nil)
	estimator := pricingx.Config{TaxRate: 0.15, DeliveryFee: 4.99}

	pipeline, err := guardx.New(session, profile, client, nil, estimator, guardx.Config{DryRun: true})
	if err != nil {
		t.Fatalf("pipeline init: %v", err)
	}
	svc, err := New(session, profile, client, pipeline, estimator)
	if err != nil {
		t.Fatalf("service init: %v", err)
	}
	return svc, session
}

func bindReadyCart(ctx context.Context, session *statex.Session) {
	session.BindStore(ctx, "10382", nil)
	menu := catalogx.NewMenu()
	menu.Add("Pizza", catalogx.Item{Code: "14SCREEN", Name: "Large Hand Tossed", Price: "12.99"})
	session.CacheMenu("10382", menu)
	session.AddItem(ctx, statex.CartItem{Code: "14SCREEN", Quantity: 2})
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 0.005
}

func TestFindStoresSelectsFirstOpenStore(t *testing.T) {
	t.Parallel()

	var stores []contractx.StoreSummary
	for i := 0; i < 7; i++ {
		stores = append(stores, contractx.StoreSummary{
			StoreID: fmt.Sprintf("104%02d", i),
			Address: fmt.Sprintf("%d Queen St", i),
			IsOpen:  i >= 1,
		})
	}
	client := &fakeClient{findFn: func(contractx.Address, string) ([]contractx.StoreSummary, error) {
		return stores, nil
	}}
	svc, session := newTestService(t, client, testProfile())

	out := svc.FindStores(context.Background(), "", "", "", "", "")
	if !out.Success {
		t.Fatalf("unexpected failure: %+v", out.Envelope)
	}
	if len(out.Stores) != maxStoreResults {
		t.Fatalf("expected %d stores, got %d", maxStoreResults, len(out.Stores))
	}
	if out.SelectedStore != "10401" {
		t.Fatalf("expected first open store selected, got %q", out.SelectedStore)
	}
	if session.StoreID() != "10401" {
		t.Fatalf("session must bind the selected store, got %q", session.StoreID())
	}
}

func TestFindStoresNoneOpen(t *testing.T) {
	t.Parallel()

	client := &fakeClient{findFn: func(contractx.Address, string) ([]contractx.StoreSummary, error) {
		return []contractx.StoreSummary{{StoreID: "10382", IsOpen: false}}, nil
	}}
	svc, session := newTestService(t, client, testProfile())

	out := svc.FindStores(context.Background(), "", "", "", "", "")
	if !out.Success || out.SelectedStore != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if session.StoreID() != "" {
		t.Fatal("closed stores must not be auto-selected")
	}
	if out.Message == "" {
		t.Fatal("expected guidance message")
	}
}

func TestFindStoresLookupFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{findFn: func(contractx.Address, string) ([]contractx.StoreSummary, error) {
		return nil, errors.New("locator down")
	}}
	svc, _ := newTestService(t, client, testProfile())

	out := svc.FindStores(context.Background(), "", "", "", "", "")
	if out.Success || out.Code != contractx.CodeStoreLookupFailed {
		t.Fatalf("expected STORE_LOOKUP_FAILED, got %+v", out.Envelope)
	}
}

func TestFindStoresProfileAddressFallback(t *testing.T) {
	t.Parallel()

	var gotAddr contractx.Address
	client := &fakeClient{findFn: func(addr contractx.Address, _ string) ([]contractx.StoreSummary, error) {
		gotAddr = addr
		return nil, nil
	}}
	svc, _ := newTestService(t, client, testProfile())

	svc.FindStores(context.Background(), "9 Other Ave", "", "", "", "")
	if gotAddr.Street != "9 Other Ave" {
		t.Fatalf("explicit street must win, got %q", gotAddr.Street)
	}
	if gotAddr.City != "Toronto" || gotAddr.PostalCode != "M5V 1A1" {
		t.Fatalf("omitted fields must fall back to the profile, got %+v", gotAddr)
	}
}

func TestGetMenuCachesClassification(t *testing.T) {
	t.Parallel()

	client := &fakeClient{menuFn: func(string) (*contractx.RawMenu, error) {
		return &contractx.RawMenu{
			Variants: map[string]any{
				"14SCREEN": map[string]any{"Name": "Large Hand Tossed Pizza", "Price": "12.99", "ProductType": "Pizza"},
			},
		}, nil
	}}
	svc, session := newTestService(t, client, testProfile())
	session.BindStore(context.Background(), "10382", nil)

	first := svc.GetMenu(context.Background(), "", "")
	if !first.Success {
		t.Fatalf("unexpected failure: %+v", first.Envelope)
	}
	second := svc.GetMenu(context.Background(), "", "Pizza")
	if !second.Success {
		t.Fatalf("unexpected failure: %+v", second.Envelope)
	}
	if client.menuCalls != 1 {
		t.Fatalf("expected one vendor fetch, got %d", client.menuCalls)
	}
	if items, ok := second.Categories.Items("Pizza"); !ok || len(items) != 1 {
		t.Fatalf("unexpected filtered view: ok=%v items=%v", ok, items)
	}
}

func TestGetMenuRequiresStore(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeClient{}, testProfile())
	out := svc.GetMenu(context.Background(), "", "")
	if out.Success || out.Code != contractx.CodeNoStore {
		t.Fatalf("expected NO_STORE, got %+v", out.Envelope)
	}
}

func TestSearchMenuFillsCacheOpportunistically(t *testing.T) {
	t.Parallel()

	client := &fakeClient{menuFn: func(string) (*contractx.RawMenu, error) {
		return &contractx.RawMenu{
			Variants: map[string]any{
				"14SCREEN": map[string]any{"Name": "Large Hand Tossed Pizza", "Price": "12.99", "ProductType": "Pizza"},
			},
		}, nil
	}}
	svc, session := newTestService(t, client, testProfile())
	session.BindStore(context.Background(), "10382", nil)

	out := svc.SearchMenu(context.Background(), "pizza", "")
	if !out.Success || out.ResultCount != 1 {
		t.Fatalf("unexpected search outcome: %+v", out)
	}
	if _, ok := session.CachedMenu("10382"); !ok {
		t.Fatal("search must fill the menu cache")
	}
}

func TestAddToCartRequiresStore(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeClient{}, testProfile())
	out := svc.AddToCart(context.Background(), "14SCREEN", 1, nil, "")
	if out.Success || out.Code != contractx.CodeNoStore {
		t.Fatalf("expected NO_STORE, got %+v", out.Envelope)
	}
}

func TestAddToCartAdoptsPreferredStore(t *testing.T) {
	t.Parallel()

	profile := testProfile()
	profile.Preferences.PreferredStoreID = "10411"
	svc, session := newTestService(t, &fakeClient{}, profile)

	out := svc.AddToCart(context.Background(), "14SCREEN", 2, nil, "")
	if !out.Success {
		t.Fatalf("unexpected failure: %+v", out.Envelope)
	}
	if session.StoreID() != "10411" {
		t.Fatalf("preferred store must be adopted, got %q", session.StoreID())
	}
	if out.CartIndex != 0 || out.CartTotalItems != 1 {
		t.Fatalf("unexpected cart state: %+v", out)
	}
}

func TestAddToCartQuantityBounds(t *testing.T) {
	t.Parallel()

	svc, session := newTestService(t, &fakeClient{}, testProfile())
	session.BindStore(context.Background(), "10382", nil)

	for _, qty := range []int{0, -1, 11} {
		out := svc.AddToCart(context.Background(), "14SCREEN", qty, nil, "")
		if out.Success || out.Code != contractx.CodeInvalidQuantity {
			t.Fatalf("qty %d: expected INVALID_QUANTITY, got %+v", qty, out.Envelope)
		}
	}
	if session.Len() != 0 {
		t.Fatalf("rejected adds must not touch the cart, got %d items", session.Len())
	}
}

func TestRemoveFromCartInvalidIndex(t *testing.T) {
	t.Parallel()

	svc, session := newTestService(t, &fakeClient{}, testProfile())
	session.BindStore(context.Background(), "10382", nil)
	svc.AddToCart(context.Background(), "14SCREEN", 1, nil, "")

	out := svc.RemoveFromCart(context.Background(), 5)
	if out.Success || out.Code != contractx.CodeInvalidIndex {
		t.Fatalf("expected INVALID_INDEX, got %+v", out.Envelope)
	}
	if !strings.Contains(out.Error, "1 items") {
		t.Fatalf("error must report the cart size: %s", out.Error)
	}

	ok := svc.RemoveFromCart(context.Background(), 0)
	if !ok.Success || ok.Removed == nil || ok.Removed.Code != "14SCREEN" {
		t.Fatalf("unexpected removal: %+v", ok)
	}
}

func TestClearCartUnbindsStore(t *testing.T) {
	t.Parallel()

	svc, session := newTestService(t, &fakeClient{}, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.ClearCart(context.Background())
	if !out.Success {
		t.Fatalf("unexpected failure: %+v", out.Envelope)
	}
	if session.Len() != 0 || session.StoreID() != "" {
		t.Fatal("clear must empty the cart and unbind the store")
	}
}

func TestPriceOrderGuards(t *testing.T) {
	t.Parallel()

	svc, session := newTestService(t, &fakeClient{}, testProfile())

	if out := svc.PriceOrder(context.Background()); out.Code != contractx.CodeNoStore {
		t.Fatalf("expected NO_STORE, got %+v", out.Envelope)
	}
	session.BindStore(context.Background(), "10382", nil)
	if out := svc.PriceOrder(context.Background()); out.Code != contractx.CodeEmptyCart {
		t.Fatalf("expected EMPTY_CART, got %+v", out.Envelope)
	}
}

func TestPriceOrderVendorBreakdown(t *testing.T) {
	t.Parallel()

	client := &fakeClient{priceFn: func(draft *contractx.OrderDraft) error {
		draft.Amounts = map[string]string{
			"Menu":     "29.98",
			"Discount": "0",
			"Tax":      "4.50",
			"Customer": "39.47",
		}
		draft.EstimatedWaitMinutes = "25-35"
		return nil
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.PriceOrder(context.Background())
	if !out.Success {
		t.Fatalf("unexpected failure: %+v", out.Envelope)
	}
	if out.Pricing.Estimated {
		t.Fatal("vendor breakdown must not be labelled estimated")
	}
	if !closeTo(out.Pricing.Total, 39.47) || !closeTo(out.Pricing.Subtotal, 29.98) {
		t.Fatalf("unexpected breakdown: %+v", out.Pricing)
	}
	if out.EstimatedWaitMinutes != "25-35" {
		t.Fatalf("unexpected wait: %q", out.EstimatedWaitMinutes)
	}
}

func TestPriceOrderEstimateFallback(t *testing.T) {
	t.Parallel()

	// Vendor overwrites line prices but returns no amounts; the snapshot
	// taken before the call must keep the estimate intact.
	client := &fakeClient{priceFn: func(draft *contractx.OrderDraft) error {
		for i := range draft.Products {
			draft.Products[i].Price = "0"
		}
		return nil
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.PriceOrder(context.Background())
	if !out.Success {
		t.Fatalf("unexpected failure: %+v", out.Envelope)
	}
	if !out.Pricing.Estimated {
		t.Fatal("fallback breakdown must be labelled estimated")
	}
	if !closeTo(out.Pricing.Total, 34.87) || !closeTo(out.Pricing.Subtotal, 25.98) {
		t.Fatalf("unexpected estimate: %+v", out.Pricing)
	}
}

func TestPriceOrderVendorFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{priceFn: func(*contractx.OrderDraft) error {
		return errors.New("vendor 500")
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.PriceOrder(context.Background())
	if out.Success || out.Code != contractx.CodePriceFailed {
		t.Fatalf("expected PRICE_FAILED, got %+v", out.Envelope)
	}
}

func TestValidateOrderVerdict(t *testing.T) {
	t.Parallel()

	client := &fakeClient{validateFn: func(draft *contractx.OrderDraft) error {
		draft.Status = 1
		draft.StatusItems = []contractx.StatusItem{
			{Code: "InvalidProduct", PulseCode: 1},
			{Code: "AutoAddedOrderId", PulseCode: 0},
		}
		return nil
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.ValidateOrder(context.Background())
	if !out.Success {
		t.Fatalf("verdicts are not failures: %+v", out.Envelope)
	}
	if out.Valid {
		t.Fatal("a pulse error must invalidate the order")
	}
	if len(out.Errors) != 1 || out.Errors[0] != "InvalidProduct" {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if len(out.Warnings) != 1 || out.Warnings[0] != "AutoAddedOrderId" {
		t.Fatalf("unexpected warnings: %v", out.Warnings)
	}
}

func TestValidateOrderThrownBecomesVerdict(t *testing.T) {
	t.Parallel()

	client := &fakeClient{validateFn: func(*contractx.OrderDraft) error {
		return errors.New("vendor rejected the payload")
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.ValidateOrder(context.Background())
	if !out.Success || out.Valid {
		t.Fatalf("thrown validate must become an invalid verdict: %+v", out)
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "rejected") {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
}

func TestValidateOrderClean(t *testing.T) {
	t.Parallel()

	client := &fakeClient{validateFn: func(draft *contractx.OrderDraft) error {
		draft.Status = 1
		return nil
	}}
	svc, session := newTestService(t, client, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.ValidateOrder(context.Background())
	if !out.Success || !out.Valid {
		t.Fatalf("expected valid verdict, got %+v", out)
	}
}

func TestTrackOrderPhoneFallback(t *testing.T) {
	t.Parallel()

	var gotPhone string
	client := &fakeClient{trackFn: func(phone, _ string) ([]contractx.TrackedOrder, error) {
		gotPhone = phone
		return []contractx.TrackedOrder{{OrderStatus: "MakeLine", OrderID: "ABC123"}}, nil
	}}
	svc, _ := newTestService(t, client, testProfile())

	out := svc.TrackOrder(context.Background(), "", "")
	if !out.Success || len(out.Orders) != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if gotPhone != "555-0142" {
		t.Fatalf("profile phone must be the fallback, got %q", gotPhone)
	}
}

func TestTrackOrderRequiresPhone(t *testing.T) {
	t.Parallel()

	profile := testProfile()
	profile.Customer.Phone = ""
	svc, _ := newTestService(t, &fakeClient{}, profile)

	out := svc.TrackOrder(context.Background(), "", "")
	if out.Success || out.Code != contractx.CodeNoPhone {
		t.Fatalf("expected NO_PHONE, got %+v", out.Envelope)
	}
}

func TestTrackOrderNoneActive(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeClient{}, testProfile())
	out := svc.TrackOrder(context.Background(), "", "")
	if !out.Success || len(out.Orders) != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Message == "" {
		t.Fatal("expected a no-orders message")
	}
}

func TestPlaceOrderDelegatesToPipeline(t *testing.T) {
	t.Parallel()

	svc, session := newTestService(t, &fakeClient{}, testProfile())
	bindReadyCart(context.Background(), session)

	out := svc.PlaceOrder(context.Background(), guardx.PlaceInput{Confirm: guardx.ConfirmationToken})
	if !out.Success || !out.DryRun {
		t.Fatalf("expected dry-run success, got %+v", out)
	}
	if session.Len() != 0 {
		t.Fatal("accepted dry run must clear the cart")
	}
}
