// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package resources wraps the business API's customer, item, order and
// order-history endpoints. Every call goes through the shared API client, so the
// session header is attached and a 401 expires the session.
package resources

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"bizdesk/cli/internal/apiclient"
	bizerrors "bizdesk/cli/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Fallback messages used when the server sends no reason.
const (
	MsgFetchCustomers  = "Failed to fetch customers"
	MsgSaveCustomer    = "Failed to save customer"
	MsgDeleteCustomer  = "Failed to delete customer"
	MsgFetchItems      = "Failed to fetch items"
	MsgSaveItem        = "Failed to save item"
	MsgDeleteItem      = "Failed to delete item"
	MsgFetchOrders     = "Failed to fetch orders"
	MsgCreateOrder     = "Failed to create order"
	MsgFetchHistory    = "Failed to fetch order history"
	MsgFetchStats      = "Failed to fetch stats"
	MsgSessionRejected = "Your session has expired. Please log in again."
)

// API is the subset of the API client used here.
type API interface {
	Endpoints() apiclient.Endpoints
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Service calls the resource endpoints.
type Service struct {
	api API
	ep  apiclient.Endpoints
}

// New returns a Service over api.
func New(api API) *Service {
	return &Service{api: api, ep: api.Endpoints()}
}

func (s *Service) Customers(ctx context.Context) (Customers, error) {
	var out Customers
	if err := s.api.Get(ctx, s.ep.Customers, &out); err != nil {
		return nil, wrap(err, MsgFetchCustomers)
	}
	return out, nil
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) error {
	if err := validateCustomer(in); err != nil {
		return err
	}
	return wrap(s.api.Post(ctx, s.ep.Customers, in, nil), MsgSaveCustomer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, in CustomerInput) error {
	if err := validateCustomer(in); err != nil {
		return err
	}
	p, err := member(s.ep.Customers, id)
	if err != nil {
		return err
	}
	return wrap(s.api.Put(ctx, p, in, nil), MsgSaveCustomer)
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	p, err := member(s.ep.Customers, id)
	if err != nil {
		return err
	}
	return wrap(s.api.Delete(ctx, p, nil), MsgDeleteCustomer)
}

func (s *Service) Items(ctx context.Context) (Items, error) {
	var out Items
	if err := s.api.Get(ctx, s.ep.Items, &out); err != nil {
		return nil, wrap(err, MsgFetchItems)
	}
	return out, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) error {
	if err := validateItem(in); err != nil {
		return err
	}
	return wrap(s.api.Post(ctx, s.ep.Items, in, nil), MsgSaveItem)
}

func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) error {
	if err := validateItem(in); err != nil {
		return err
	}
	p, err := member(s.ep.Items, id)
	if err != nil {
		return err
	}
	return wrap(s.api.Put(ctx, p, in, nil), MsgSaveItem)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	p, err := member(s.ep.Items, id)
	if err != nil {
		return err
	}
	return wrap(s.api.Delete(ctx, p, nil), MsgDeleteItem)
}

func (s *Service) Orders(ctx context.Context) (Orders, error) {
	var out Orders
	if err := s.api.Get(ctx, s.ep.Orders, &out); err != nil {
		return nil, wrap(err, MsgFetchOrders)
	}
	return out, nil
}

// CreateOrder places an order for one customer with one or more item lines.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return bizerrors.New(bizerrors.Validation, "customer is required")
	}
	if len(in.Items) == 0 {
		return bizerrors.New(bizerrors.Validation, "at least one item is required")
	}
	for _, line := range in.Items {
		if strings.TrimSpace(line.ItemID) == "" || line.Quantity <= 0 {
			return bizerrors.New(bizerrors.Validation, "every item needs an id and a positive quantity")
		}
	}
	return wrap(s.api.Post(ctx, s.ep.Orders, in, nil), MsgCreateOrder)
}

func (s *Service) History(ctx context.Context) (History, error) {
	var out History
	if err := s.api.Get(ctx, s.ep.OrderHistory, &out); err != nil {
		return nil, wrap(err, MsgFetchHistory)
	}
	return out, nil
}

// Stats fetches customers, items and orders in parallel and reduces them to
// counters. Any failed fetch fails the whole call.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		customers Customers
		items     Items
		orders    Orders
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.api.Get(gctx, s.ep.Customers, &customers) })
	g.Go(func() error { return s.api.Get(gctx, s.ep.Items, &items) })
	g.Go(func() error { return s.api.Get(gctx, s.ep.Orders, &orders) })
	if err := g.Wait(); err != nil {
		return Stats{}, wrap(err, MsgFetchStats)
	}
	return Stats{
		Customers:    len(customers),
		ItemsInStock: items.InStock(),
		Orders:       len(orders),
	}, nil
}

// wrap turns a client error into a categorized error carrying the message to show.
func wrap(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var apiErr *apiclient.APIError
	switch {
	case apiclient.IsUnauthorized(err):
		return bizerrors.Wrap(bizerrors.Unauthorized, apiclient.MessageFrom(err, MsgSessionRejected), err)
	case errors.As(err, &apiErr):
		return bizerrors.Wrap(bizerrors.API, apiclient.MessageFrom(err, fallback), err)
	default:
		return bizerrors.Wrap(bizerrors.Network, fallback, err)
	}
}

func member(collection, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", bizerrors.New(bizerrors.Validation, "id is required")
	}
	return collection + "/" + url.PathEscape(id), nil
}

func validateCustomer(in CustomerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return bizerrors.New(bizerrors.Validation, "customer name is required")
	}
	return nil
}

func validateItem(in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return bizerrors.New(bizerrors.Validation, "item name is required")
	}
	if in.Price < 0 || in.Quantity < 0 {
		return bizerrors.New(bizerrors.Validation, "price and quantity must not be negative")
	}
	return nil
}
