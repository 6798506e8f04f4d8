//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "laundry-api"
	ConsumerName = "front-desk"

	StateBaseline       = "laundry baseline"
	StateOrderReady     = "order ord-101 is ready and unpaid"
	StateOrderMissing   = "no order with id ord-404"
	StateDriverOnShift  = "driver drv-7 is available"
	StateLedgerRecorded = "order ord-101 was paid in cash"
)

const (
	ExistingOrderID = "ord-101"
	MissingOrderID  = "ord-404"
	DriverID        = "drv-7"

	TicketPattern = `^LC-\d{8}-[A-Z0-9]{4}$`
)

const (
	exampleCustomer  = "Ana Pact"
	examplePhone     = "555-0199"
	exampleItem      = "Shirt"
	exampleUnitPrice = "6.50"
	exampleQuantity  = 2
)

// ExampleOrderTotal is the total of ExampleCreateOrderPayload.
const ExampleOrderTotal = "13"

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the front desk consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreateOrderPayload is a counter drop-off of two shirts.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":  exampleCustomer,
			"phone": examplePhone,
		},
		"items": []map[string]any{
			{"name": exampleItem, "unit": "piece", "quantity": exampleQuantity, "unitPrice": exampleUnitPrice},
		},
	}
}

// ExamplePaymentPayload settles ExampleCreateOrderPayload in cash.
func ExamplePaymentPayload() map[string]any {
	return map[string]any{"amount": ExampleOrderTotal, "method": "cash"}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
