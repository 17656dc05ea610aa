package cart

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/example/storefront/internal/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	store, err := NewStore(storage)
	require.NoError(t, err)
	return store, storage
}

func testProduct(id int64, price string) catalog.Product {
	money, err := catalog.NewMoney(price, "USD")
	if err != nil {
		panic(err)
	}
	return catalog.Product{
		ID:      id,
		Name:    gofakeit.ProductName(),
		InStock: true,
		Price:   money,
		Gallery: []string{gofakeit.URL()},
		Category: catalog.Category{
			ID:   1,
			Name: "clothes",
		},
	}
}

func TestStore_Add_MergesSameSelection(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")

	// Options supplied in different key orders must land on one line.
	store.Add(p, catalog.SelectedOptions{"1": "M", "2": "#000000"})
	store.Add(p, catalog.SelectedOptions{"2": "#000000", "1": "M"})
	store.Add(p, catalog.SelectedOptions{"1": "M", "2": "#000000"})

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, store.ItemCount())
}

func TestStore_Add_DistinctSelectionsStaySeparate(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")

	store.Add(p, catalog.SelectedOptions{"1": "M"})
	store.Add(p, catalog.SelectedOptions{"1": "L"})

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, store.ItemCount())
}

func TestStore_Add_SnapshotIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	store.Add(p, opts)
	opts["1"] = "L" // caller mutates its map after adding

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "M", items[0].Options["1"])
}

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	store.Add(p, opts)
	store.Remove(7, opts)

	assert.Empty(t, store.Items())
}

func TestStore_Remove_AbsentIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")

	store.Add(p, catalog.SelectedOptions{"1": "M"})
	store.Remove(7, catalog.SelectedOptions{"1": "L"})
	store.Remove(99, catalog.SelectedOptions{"1": "M"})

	assert.Equal(t, 1, store.ItemCount())
}

func TestStore_SetQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	store.Add(p, opts)
	store.Add(p, opts)
	store.SetQuantity(7, opts, 5)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity, "set is exact, not additive")
}

func TestStore_SetQuantityZero_EqualsRemove(t *testing.T) {
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	viaSet, _ := newTestStore(t)
	viaSet.Add(p, opts)
	viaSet.SetQuantity(7, opts, 0)

	viaRemove, _ := newTestStore(t)
	viaRemove.Add(p, opts)
	viaRemove.Remove(7, opts)

	assert.Empty(t, viaSet.Items())
	assert.Empty(t, viaRemove.Items())
}

func TestStore_SetQuantityNegative_Removes(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	store.Add(p, opts)
	store.SetQuantity(7, opts, -3)

	assert.Empty(t, store.Items())
}

func TestStore_Total(t *testing.T) {
	store, _ := newTestStore(t)
	shirt := testProduct(1, "10.50")
	shoes := testProduct(2, "99.99")

	store.Add(shirt, catalog.SelectedOptions{"1": "M"})
	store.Add(shirt, catalog.SelectedOptions{"1": "M"})
	store.Add(shoes, catalog.SelectedOptions{"5": "42"})

	total := store.Total()
	assert.True(t, total.Amount.Equal(decimal.RequireFromString("120.99")),
		"got %s", total.Amount)
	assert.Equal(t, currency.USD, total.Currency)

	// Mutating one line never perturbs another line's contribution.
	store.SetQuantity(1, catalog.SelectedOptions{"1": "M"}, 1)
	total = store.Total()
	assert.True(t, total.Amount.Equal(decimal.RequireFromString("110.49")),
		"got %s", total.Amount)
}

func TestStore_Lifecycle(t *testing.T) {
	// add -> add -> set 5 -> remove, per the reference scenario.
	store, _ := newTestStore(t)
	p := testProduct(7, "25.00")
	opts := catalog.SelectedOptions{"3": "M"}

	store.Add(p, opts)
	require.Equal(t, 1, store.ItemCount())

	store.Add(p, catalog.SelectedOptions{"3": "M"})
	require.Equal(t, 2, store.ItemCount())

	store.SetQuantity(7, opts, 5)
	require.Equal(t, 5, store.ItemCount())

	store.Remove(7, opts)
	assert.Equal(t, 0, store.ItemCount())
	assert.True(t, store.Total().IsZero())
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t)

	store.Add(testProduct(1, "10.00"), catalog.SelectedOptions{"1": "M"})
	store.Add(testProduct(2, "20.00"), nil)
	store.Clear()

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
	assert.True(t, store.Total().IsZero())
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	store, storage := newTestStore(t)
	p := testProduct(7, "10.00")
	opts := catalog.SelectedOptions{"1": "M"}

	before := storage.SaveCalls
	store.Add(p, opts)
	store.SetQuantity(7, opts, 3)
	store.Remove(7, opts)
	store.Clear()

	assert.Equal(t, before+4, storage.SaveCalls)
}

func TestStore_PersistenceFailure_KeepsMemoryAuthoritative(t *testing.T) {
	store, storage := newTestStore(t)
	storage.SaveErr = errors.New("quota exceeded")

	store.Add(testProduct(7, "10.00"), catalog.SelectedOptions{"1": "M"})

	assert.Equal(t, 1, store.ItemCount(), "mutation must not be rolled back")
}

func TestStore_Rehydrate_RoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	first, err := NewStore(storage)
	require.NoError(t, err)

	first.Add(testProduct(1, "10.00"), catalog.SelectedOptions{"1": "M", "2": "#000000"})
	first.Add(testProduct(2, "5.25"), catalog.SelectedOptions{"9": "1TB"})
	first.SetQuantity(2, catalog.SelectedOptions{"9": "1TB"}, 4)

	second, err := NewStore(storage)
	require.NoError(t, err)

	want := quantitiesByKey(first.Items())
	got := quantitiesByKey(second.Items())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("restored cart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, first.ItemCount(), second.ItemCount())
	assert.True(t, first.Total().Amount.Equal(second.Total().Amount))
}

func TestStore_ToggleVisible_Transient(t *testing.T) {
	storage := NewMemoryStorage()
	store, err := NewStore(storage)
	require.NoError(t, err)

	saves := storage.SaveCalls
	assert.True(t, store.ToggleVisible())
	assert.True(t, store.Visible())
	assert.False(t, store.ToggleVisible())
	assert.Equal(t, saves, storage.SaveCalls, "visibility is not persisted")

	// Not restored across restarts either.
	store.ToggleVisible()
	restarted, err := NewStore(storage)
	require.NoError(t, err)
	assert.False(t, restarted.Visible())
}

func quantitiesByKey(items []LineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.Key()] = item.Quantity
	}
	return out
}
