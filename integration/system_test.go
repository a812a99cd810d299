//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestStorefront_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	email := fmt.Sprintf("user_%d_%d@example.com", time.Now().Unix(), rand.Intn(100000))
	pass := "password123!"

	doJSON(t, http.MethodPost, baseURL+"/signup", "", map[string]any{
		"email":    email,
		"password": pass,
	}, nil, 201)

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/login", "", map[string]any{
		"email":    email,
		"password": pass,
	}, &loginResp, 200)
	if loginResp.AccessToken == "" {
		t.Fatalf("empty access_token")
	}
	token := loginResp.AccessToken

	var products struct {
		Products []map[string]any `json:"products"`
	}
	doJSON(t, http.MethodGet, baseURL+"/products", "", nil, &products, 200)
	if len(products.Products) == 0 {
		t.Fatalf("expected non-empty products; seed the catalog first")
	}

	pid, _ := products.Products[0]["id"].(string)
	if pid == "" {
		t.Fatalf("product id missing in response: %#v", products.Products[0])
	}

	var cart struct {
		Cart struct {
			Items []map[string]any `json:"items"`
		} `json:"cart"`
	}
	doJSON(t, http.MethodPost, baseURL+"/cart/add", token, map[string]any{
		"productId": pid,
		"quantity":  2,
	}, &cart, 200)
	if len(cart.Cart.Items) != 1 {
		t.Fatalf("cart items: %#v", cart.Cart.Items)
	}

	var checkout struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	doJSON(t, http.MethodPost, baseURL+"/checkout", token, map[string]any{
		"shippingInfo": map[string]any{"name": "E2E", "city": "Testville"},
		"paymentInfo":  map[string]any{"method": "card", "cardNumber": "4111111111111111"},
	}, &checkout, 201)
	if checkout.Order.ID == "" {
		t.Fatalf("order id missing")
	}

	doJSON(t, http.MethodGet, baseURL+"/cart", token, nil, &cart, 200)
	if len(cart.Cart.Items) != 0 {
		t.Fatalf("cart not cleared: %#v", cart.Cart.Items)
	}

	var orders struct {
		Orders []map[string]any `json:"orders"`
	}
	doJSON(t, http.MethodGet, baseURL+"/orders", token, nil, &orders, 200)
	if len(orders.Orders) != 1 {
		t.Fatalf("orders: %#v", orders.Orders)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service never became ready: %v", ctx.Err())
		default:
		}

		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func doJSON(t *testing.T, method, url, token string, in, out any, wantStatus int) {
	t.Helper()

	var r io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status=%d want=%d body=%s", method, url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
