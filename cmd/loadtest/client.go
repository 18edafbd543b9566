package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	httpsvc "github.com/vladislavdragonenkov/lugx/internal/service/http"
)

const (
	methodCreate = "POST /orders"
	methodGet    = "GET /orders/:id"
	methodUpdate = "PUT /orders/:id/status"
	scenarioName = "scenario"

	outcomeError = "error"
)

// scenarioItems — позиции каждого заказа нагрузки; итог 19.99×2 + 4.99 = 44.97.
var scenarioItems = []struct {
	name     string
	price    string
	quantity int
}{
	{name: "Load Test Deluxe", price: "19.99", quantity: 2},
	{name: "Load Test DLC", price: "4.99", quantity: 1},
}

type orderClient struct {
	rest *resty.Client
}

func newOrderClient(baseURL string, timeout time.Duration) *orderClient {
	return &orderClient{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(0),
	}
}

// apiError описывает ответ с неожиданным HTTP-статусом.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

func outcomeOf(status int, err error) string {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		return strconv.Itoa(apiErr.status)
	case err != nil && status == 0:
		return outcomeError
	default:
		return strconv.Itoa(status)
	}
}

func (c *orderClient) createOrder(ctx context.Context, req httpsvc.CreateOrderRequest) (httpsvc.OrderResponse, int, error) {
	var out httpsvc.OrderResponse
	resp, err := c.rest.R().SetContext(ctx).SetBody(req).SetResult(&out).Post("/orders")
	if err != nil {
		return out, 0, err
	}
	if resp.StatusCode() != http.StatusCreated {
		return out, resp.StatusCode(), &apiError{status: resp.StatusCode(), body: resp.String()}
	}
	return out, resp.StatusCode(), nil
}

func (c *orderClient) getOrder(ctx context.Context, id int64) (httpsvc.OrderResponse, int, error) {
	var out httpsvc.OrderResponse
	resp, err := c.rest.R().SetContext(ctx).SetResult(&out).Get("/orders/" + strconv.FormatInt(id, 10))
	if err != nil {
		return out, 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return out, resp.StatusCode(), &apiError{status: resp.StatusCode(), body: resp.String()}
	}
	return out, resp.StatusCode(), nil
}

func (c *orderClient) updateStatus(ctx context.Context, id int64, status string) (httpsvc.OrderRowResponse, int, error) {
	var out httpsvc.OrderRowResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(httpsvc.UpdateStatusRequest{Status: status}).
		SetResult(&out).
		Put("/orders/" + strconv.FormatInt(id, 10) + "/status")
	if err != nil {
		return out, 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return out, resp.StatusCode(), &apiError{status: resp.StatusCode(), body: resp.String()}
	}
	return out, resp.StatusCode(), nil
}

func buildCreateRequest(cfg config, runID string, index int) httpsvc.CreateOrderRequest {
	items := make([]httpsvc.OrderItemRequest, 0, len(scenarioItems))
	for _, item := range scenarioItems {
		quantity := item.quantity
		items = append(items, httpsvc.OrderItemRequest{
			GameName: item.name,
			Price:    httpsvc.NewMoney(decimal.RequireFromString(item.price)),
			Quantity: &quantity,
		})
	}
	return httpsvc.CreateOrderRequest{
		CustomerEmail: fmt.Sprintf("load-%s-%d@%s", runID, index, cfg.emailDomain),
		Items:         items,
	}
}

func expectedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range scenarioItems {
		total = total.Add(decimal.RequireFromString(item.price).Mul(decimal.NewFromInt(int64(item.quantity))))
	}
	return total
}

// verifyOrder сверяет сохранённый заказ с отправленным запросом.
func verifyOrder(order httpsvc.OrderResponse, req httpsvc.CreateOrderRequest) error {
	if order.CustomerEmail != req.CustomerEmail {
		return fmt.Errorf("order %d: customer_email %q, want %q", order.ID, order.CustomerEmail, req.CustomerEmail)
	}
	if len(order.Items) != len(req.Items) {
		return fmt.Errorf("order %d: %d items, want %d", order.ID, len(order.Items), len(req.Items))
	}
	if want := expectedTotal(); !order.TotalPrice.Decimal().Equal(want) {
		return fmt.Errorf("order %d: total %s, want %s", order.ID, order.TotalPrice.Decimal().StringFixed(2), want.StringFixed(2))
	}
	return nil
}

func runScenario(ctx context.Context, client *orderClient, cfg config, index int, runID string, col *collector) (err error) {
	scenarioStart := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		col.record(scenarioName, time.Since(scenarioStart), outcome, err == nil)
	}()

	req := buildCreateRequest(cfg, runID, index)

	start := time.Now()
	created, status, err := client.createOrder(ctx, req)
	col.record(methodCreate, time.Since(start), outcomeOf(status, err), err == nil)
	if err != nil {
		return err
	}
	if created.ID <= 0 {
		return errors.New("create response returned empty order id")
	}
	if err := verifyOrder(created, req); err != nil {
		return err
	}

	if cfg.mode == modeCreate {
		return nil
	}

	start = time.Now()
	fetched, status, err := client.getOrder(ctx, created.ID)
	col.record(methodGet, time.Since(start), outcomeOf(status, err), err == nil)
	if err != nil {
		return err
	}
	if err := verifyOrder(fetched, req); err != nil {
		return err
	}

	if cfg.mode != modeCreateUpdate {
		return nil
	}

	start = time.Now()
	updated, status, err := client.updateStatus(ctx, created.ID, cfg.status)
	col.record(methodUpdate, time.Since(start), outcomeOf(status, err), err == nil)
	if err != nil {
		return err
	}
	if updated.Status != cfg.status {
		return fmt.Errorf("order %d: status %q, want %q", updated.ID, updated.Status, cfg.status)
	}
	return nil
}
