// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bizdesk/cli/internal/output"
)

// ID is a record identifier. The API sends numbers or strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	v, err := scalar(b)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(v)
	return nil
}

// Int is a whole number the API may send as a numeric string.
type Int int64

func (n *Int) UnmarshalJSON(b []byte) error {
	v, err := scalar(b)
	if err != nil {
		return fmt.Errorf("integer: %w", err)
	}
	if v == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("integer: %w", err)
	}
	*n = Int(math.Trunc(f))
	return nil
}

// Decimal is a price the API may send as a numeric string.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	v, err := scalar(b)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	if v == "" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) String() string { return strconv.FormatFloat(float64(d), 'f', 2, 64) }

// scalar returns a JSON string, number or null as text.
func scalar(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return "", nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return "", err
		}
		return num.String(), nil
	}
}

// Customer is a row of /customers.
type Customer struct {
	ID        ID     `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	NIC       string `json:"nic" yaml:"nic"`
	ContactNo string `json:"contactNo" yaml:"contactNo"`
	Address   string `json:"address" yaml:"address"`
}

// CustomerInput is the body of create and update calls.
type CustomerInput struct {
	Name      string `json:"name"`
	NIC       string `json:"nic"`
	ContactNo string `json:"contactNo"`
	Address   string `json:"address"`
}

type Customers []Customer

func (c Customers) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "NIC", "CONTACT", "ADDRESS"}}
	for _, x := range c {
		t.Rows = append(t.Rows, []string{string(x.ID), x.Name, x.NIC, x.ContactNo, x.Address})
	}
	return t
}

// Item is a row of /items.
type Item struct {
	ID       ID      `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    Decimal `json:"price" yaml:"price"`
	Quantity Int     `json:"quantity" yaml:"quantity"`
}

// ItemInput is the body of create and update calls.
type ItemInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type Items []Item

func (it Items) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "PRICE", "QUANTITY"}}
	for _, x := range it {
		t.Rows = append(t.Rows, []string{string(x.ID), x.Name, x.Price.String(), strconv.FormatInt(int64(x.Quantity), 10)})
	}
	return t
}

// InStock sums the quantity of every item.
func (it Items) InStock() int64 {
	var total int64
	for _, x := range it {
		total += int64(x.Quantity)
	}
	return total
}

// OrderLine is one item of a listed order.
type OrderLine struct {
	Name     string `json:"name" yaml:"name"`
	Quantity Int    `json:"quantity" yaml:"quantity"`
}

// Order is a row of /orders.
type Order struct {
	ID           ID          `json:"id" yaml:"id"`
	CustomerName string      `json:"customer_name" yaml:"customer_name"`
	Items        []OrderLine `json:"items" yaml:"items"`
	TotalPrice   Decimal     `json:"total_price" yaml:"total_price"`
	Date         string      `json:"date" yaml:"date"`
}

type Orders []Order

func (o Orders) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "CUSTOMER", "ITEMS", "TOTAL", "DATE"}}
	for _, x := range o {
		lines := make([]string, 0, len(x.Items))
		for _, l := range x.Items {
			lines = append(lines, fmt.Sprintf("%s (x%d)", l.Name, l.Quantity))
		}
		t.Rows = append(t.Rows, []string{string(x.ID), x.CustomerName, strings.Join(lines, ", "), x.TotalPrice.String(), shortDate(x.Date)})
	}
	return t
}

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// OrderInput is the body of POST /orders.
type OrderInput struct {
	CustomerID string           `json:"customer_id"`
	Items      []OrderItemInput `json:"items"`
}

// HistoryLine is one item of a past order.
type HistoryLine struct {
	ItemName string `json:"item_name" yaml:"item_name"`
	Quantity Int    `json:"quantity" yaml:"quantity"`
}

// HistoryEntry is a row of /order-history.
type HistoryEntry struct {
	OrderID      ID            `json:"order_id" yaml:"order_id"`
	CustomerName string        `json:"customer_name" yaml:"customer_name"`
	Items        []HistoryLine `json:"items" yaml:"items"`
	TotalPrice   Decimal       `json:"total_price" yaml:"total_price"`
	OrderDate    string        `json:"order_date" yaml:"order_date"`
}

type History []HistoryEntry

func (h History) Table() output.Table {
	t := output.Table{Headers: []string{"ORDER", "CUSTOMER", "ITEMS", "TOTAL", "DATE"}}
	for _, x := range h {
		lines := make([]string, 0, len(x.Items))
		for _, l := range x.Items {
			lines = append(lines, fmt.Sprintf("%s (x%d)", l.ItemName, l.Quantity))
		}
		t.Rows = append(t.Rows, []string{string(x.OrderID), x.CustomerName, strings.Join(lines, ", "), x.TotalPrice.String(), shortDate(x.OrderDate)})
	}
	return t
}

// Stats are the dashboard counters.
type Stats struct {
	Customers    int   `json:"customers" yaml:"customers"`
	ItemsInStock int64 `json:"items_in_stock" yaml:"items_in_stock"`
	Orders       int   `json:"orders" yaml:"orders"`
}

func (s Stats) Table() output.Table {
	return output.Table{
		Headers: []string{"METRIC", "VALUE"},
		Rows: [][]string{
			{"Total Customers", strconv.Itoa(s.Customers)},
			{"Total Items in Stock", strconv.FormatInt(s.ItemsInStock, 10)},
			{"Total Orders", strconv.Itoa(s.Orders)},
		},
	}
}

// shortDate keeps the calendar day of an ISO timestamp.
func shortDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i == 10 {
		return s[:i]
	}
	return s
}
