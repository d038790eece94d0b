package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClient_GetBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if req.Method != "getBalance" {
			t.Errorf("expected method getBalance, got %s", req.Method)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value":   uint64(1_500_000_000),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx := context.Background()

	balance, err := client.GetBalance(ctx, "SomeAddr111")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}

	if balance != 1_500_000_000 {
		t.Errorf("expected 1500000000 lamports, got %d", balance)
	}
}

func TestHTTPClient_SendTransaction_SkipPreflight(t *testing.T) {
	var gotParams []interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if req.Method != "sendTransaction" {
			t.Errorf("expected method sendTransaction, got %s", req.Method)
		}
		gotParams = req.Params

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "5Sig111",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	sig, err := client.SendTransaction(context.Background(), "dGVzdA==")
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if sig != "5Sig111" {
		t.Errorf("expected signature 5Sig111, got %s", sig)
	}

	if len(gotParams) != 2 {
		t.Fatalf("expected 2 params, got %d", len(gotParams))
	}
	opts, ok := gotParams[1].(map[string]interface{})
	if !ok {
		t.Fatalf("expected options map, got %T", gotParams[1])
	}
	if opts["skipPreflight"] != true {
		t.Errorf("expected skipPreflight=true, got %v", opts["skipPreflight"])
	}
	if opts["preflightCommitment"] != "processed" {
		t.Errorf("expected processed commitment, got %v", opts["preflightCommitment"])
	}
}

func TestHTTPClient_GetTokenAccountsByOwner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"value": []map[string]interface{}{
					{
						"pubkey": "Acct1",
						"account": map[string]interface{}{
							"data": map[string]interface{}{
								"parsed": map[string]interface{}{
									"info": map[string]interface{}{
										"mint": "Mint1",
										"tokenAmount": map[string]interface{}{
											"amount":   "42",
											"decimals": 6,
										},
									},
								},
							},
						},
					},
					{
						"pubkey": "Acct2",
						"account": map[string]interface{}{
							"data": map[string]interface{}{
								"parsed": map[string]interface{}{
									"info": map[string]interface{}{
										"mint": "Mint2",
										"tokenAmount": map[string]interface{}{
											"amount":   "not-a-number",
											"decimals": 6,
										},
									},
								},
							},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	accounts, err := client.GetTokenAccountsByOwner(context.Background(), "Owner1", TokenProgram)
	if err != nil {
		t.Fatalf("GetTokenAccountsByOwner: %v", err)
	}

	// Malformed amounts are skipped, not fatal
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Address != "Acct1" {
		t.Errorf("expected Acct1, got %s", accounts[0].Address)
	}
	if accounts[0].Mint != "Mint1" {
		t.Errorf("expected Mint1, got %s", accounts[0].Mint)
	}
	if accounts[0].Amount != 42 {
		t.Errorf("expected amount 42, got %d", accounts[0].Amount)
	}
	if accounts[0].Program != TokenProgram {
		t.Errorf("expected program %s, got %s", TokenProgram, accounts[0].Program)
	}
}

func TestHTTPClient_RPCErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "invalid params"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))
	_, err := client.GetBalance(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("RPC-level errors must not be retried, got %d calls", calls)
	}
}
