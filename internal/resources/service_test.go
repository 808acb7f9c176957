package resources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bizdesk/cli/internal/apiclient"
	bizerrors "bizdesk/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Token  string
	Body   string
}

// fakeAPI serves canned JSON per "METHOD /path" and records requests.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]func(w http.ResponseWriter)
}

func newServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*apiclient.Client, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{r.Method, r.URL.EscapedPath(), r.Header.Get(apiclient.TokenHeader), string(body)})
		f.mu.Unlock()
		h, ok := f.routes[r.Method+" "+r.URL.EscapedPath()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"Not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w)
	}))
	t.Cleanup(srv.Close)
	c := apiclient.New(srv.URL + "/api")
	c.SetDefaultHeader(apiclient.TokenHeader, "tok")
	return c, f
}

func reply(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestCustomers(t *testing.T) {
	c, f := newServer(t, map[string]func(http.ResponseWriter){
		"GET /api/customers": reply(200, `[{"id":1,"name":"Alice","nic":"901234567V","contactNo":"0771234567","address":"Colombo"},{"id":"2","name":"Bob"}]`),
	})

	got, err := New(c).Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ID("1"), got[0].ID)
	assert.Equal(t, "0771234567", got[0].ContactNo)
	assert.Equal(t, ID("2"), got[1].ID)
	assert.Equal(t, "tok", f.last().Token)

	tab := got.Table()
	assert.Equal(t, []string{"1", "Alice", "901234567V", "0771234567", "Colombo"}, tab.Rows[0])
}

func TestCustomerWrites(t *testing.T) {
	c, f := newServer(t, map[string]func(http.ResponseWriter){
		"POST /api/customers":     reply(201, `{"msg":"Customer added"}`),
		"PUT /api/customers/7":    reply(200, `{}`),
		"DELETE /api/customers/7": reply(200, ``),
	})
	svc := New(c)
	ctx := context.Background()
	in := CustomerInput{Name: "Carol", NIC: "1", ContactNo: "2", Address: "3"}

	require.NoError(t, svc.CreateCustomer(ctx, in))
	assert.JSONEq(t, `{"name":"Carol","nic":"1","contactNo":"2","address":"3"}`, f.last().Body)

	require.NoError(t, svc.UpdateCustomer(ctx, "7", in))
	assert.Equal(t, "PUT", f.last().Method)

	require.NoError(t, svc.DeleteCustomer(ctx, "7"))
	assert.Equal(t, "/api/customers/7", f.last().Path)
}

func TestValidation(t *testing.T) {
	c, f := newServer(t, nil)
	svc := New(c)
	ctx := context.Background()

	errs := []error{
		svc.CreateCustomer(ctx, CustomerInput{}),
		svc.DeleteCustomer(ctx, " "),
		svc.CreateItem(ctx, ItemInput{Name: "Pen", Quantity: -1}),
		svc.UpdateItem(ctx, "1", ItemInput{}),
		svc.CreateOrder(ctx, OrderInput{}),
		svc.CreateOrder(ctx, OrderInput{CustomerID: "1"}),
		svc.CreateOrder(ctx, OrderInput{CustomerID: "1", Items: []OrderItemInput{{ItemID: "2", Quantity: 0}}}),
	}
	for i, err := range errs {
		assert.True(t, bizerrors.Is(err, bizerrors.Validation), "case %d: %v", i, err)
	}
	assert.Empty(t, f.requests, "validation must not reach the network")
}

func TestItems(t *testing.T) {
	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /api/items": reply(200, `[{"id":1,"name":"Pen","price":"12.5","quantity":"10"},{"id":2,"name":"Book","price":100,"quantity":5}]`),
	})

	got, err := New(c).Items(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Decimal(12.5), got[0].Price)
	assert.Equal(t, Int(10), got[0].Quantity)
	assert.Equal(t, int64(15), got.InStock())
	assert.Equal(t, []string{"1", "Pen", "12.50", "10"}, got.Table().Rows[0])
}

func TestCreateOrder(t *testing.T) {
	c, f := newServer(t, map[string]func(http.ResponseWriter){
		"POST /api/orders": reply(201, `{"id":9}`),
	})

	err := New(c).CreateOrder(context.Background(), OrderInput{
		CustomerID: "1",
		Items:      []OrderItemInput{{ItemID: "2", Quantity: 3}, {ItemID: "4", Quantity: 1}},
	})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.last().Body), &body))
	assert.Equal(t, "1", body["customer_id"])
	assert.Len(t, body["items"], 2)
}

func TestOrdersAndHistory(t *testing.T) {
	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /api/orders":        reply(200, `[{"id":3,"customer_name":"Alice","items":[{"name":"Pen","quantity":2},{"name":"Book","quantity":1}],"total_price":"125.00","date":"2025-03-01T10:00:00.000Z"}]`),
		"GET /api/order-history": reply(200, `[{"order_id":3,"customer_name":"Alice","items":[{"item_name":"Pen","quantity":2}],"total_price":25,"order_date":"2025-03-01T10:00:00.000Z"}]`),
	})
	svc := New(c)

	orders, err := svc.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "Alice", "Pen (x2), Book (x1)", "125.00", "2025-03-01"}, orders.Table().Rows[0])

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "Alice", "Pen (x2)", "25.00", "2025-03-01"}, history.Table().Rows[0])
}

func TestStats(t *testing.T) {
	c, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /api/customers": reply(200, `[{"id":1},{"id":2}]`),
		"GET /api/items":     reply(200, `[{"id":1,"quantity":"4"},{"id":2,"quantity":6}]`),
		"GET /api/orders":    reply(200, `[{"id":1},{"id":2},{"id":3}]`),
	})

	got, err := New(c).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Customers: 2, ItemsInStock: 10, Orders: 3}, got)
}

func TestStats_Failure(t *testing.T) {
	tests := []struct {
		name    string
		orders  func(http.ResponseWriter)
		message string
		kind    bizerrors.Kind
	}{
		{"server message", reply(500, `{"msg":"Database unavailable"}`), "Database unavailable", bizerrors.API},
		{"no message", reply(500, `<html>oops</html>`), MsgFetchStats, bizerrors.API},
		{"rejected session", reply(401, `{"msg":"Token is not valid"}`), "Token is not valid", bizerrors.Unauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, map[string]func(http.ResponseWriter){
				"GET /api/customers": reply(200, `[]`),
				"GET /api/items":     reply(200, `[]`),
				"GET /api/orders":    tt.orders,
			})

			_, err := New(c).Stats(context.Background())
			require.Error(t, err)
			var e *bizerrors.E
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, tt.kind, e.Kind)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(apiclient.New(base)).History(context.Background())
	var e *bizerrors.E
	require.ErrorAs(t, err, &e)
	assert.Equal(t, bizerrors.Network, e.Kind)
	assert.Equal(t, MsgFetchHistory, e.Message)
}
