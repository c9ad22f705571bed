package gateway

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantex/fixgate/internal/fix"
	"github.com/quantex/fixgate/internal/order"
	"github.com/quantex/fixgate/internal/risk"
)

func testLimits() risk.Limits {
	return risk.Limits{
		MaxQuantity:  1000,
		PriceBandMin: decimal.RequireFromString("1.00"),
		PriceBandMax: decimal.RequireFromString("1000.00"),
		MaxNotional:  decimal.RequireFromString("1000000"),
	}
}

func newTestService(t *testing.T, limits risk.Limits) (*Service, string) {
	t.Helper()
	engine, err := risk.NewEngine(limits)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal, err := NewJournal(zap.NewNop(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	return NewService(zap.NewNop(), engine, journal), path
}

func encodedLimit(t *testing.T, symbol, side string, qty int64, price string) string {
	t.Helper()
	o, err := order.New(symbol, side, qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	wire, err := fix.Encode(o)
	require.NoError(t, err)
	return wire
}

// withChecksum appends a correct trailer to a body so tests can build
// messages the encoder would never produce.
func withChecksum(body string) string {
	sum := 0
	for _, b := range []byte(body + "|") {
		sum += int(b)
	}
	return fmt.Sprintf("%s|10=%03d", body, sum%256)
}

func journalEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func eventTypes(events []Event) []string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType
	}
	return types
}

func TestProcess_AcceptedOrderIsFilled(t *testing.T) {
	svc, path := newTestService(t, testLimits())

	res, err := svc.Process(encodedLimit(t, "AAPL", order.SideBuy, 100, "185.50"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.OrderID)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, order.StateFilled, res.Status)
	assert.Empty(t, res.Reason)
	assert.Equal(t, int64(100), res.Position)
	assert.Equal(t, int64(100), svc.Risk().Position("AAPL"))

	require.NoError(t, svc.journal.Flush())
	events := journalEvents(t, path)
	assert.Equal(t,
		[]string{EventTypeOrderCreated, EventTypeOrderAcked, EventTypeOrderFilled},
		eventTypes(events))
	assert.Equal(t, res.OrderID, events[0].OrderID)
	assert.Equal(t, float64(100), events[2].Data["new_position"])
}

func TestProcess_RiskRejectionIsNotAnError(t *testing.T) {
	limits := testLimits()
	limits.MaxQuantity = 50
	svc, path := newTestService(t, limits)

	res, err := svc.Process(encodedLimit(t, "AAPL", order.SideBuy, 100, "185.50"))
	require.NoError(t, err)

	assert.Equal(t, order.StateRejected, res.Status)
	assert.Contains(t, res.Reason, "max_quantity")
	assert.Equal(t, int64(0), svc.Risk().Position("AAPL"), "rejected orders never move the position")

	require.NoError(t, svc.journal.Flush())
	events := journalEvents(t, path)
	assert.Equal(t, []string{EventTypeOrderCreated, EventTypeOrderRejected}, eventTypes(events))
	assert.Equal(t, "max_quantity", events[1].Data["check"])
}

func TestProcess_DecodeFailureIsJournaled(t *testing.T) {
	svc, path := newTestService(t, testLimits())

	raw := "8=FIX.4.2|35=D|55=AAPL|54=1|38=100|44=185.50|10=000"
	_, err := svc.Process(raw)

	var mismatch *fix.ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)

	require.NoError(t, svc.journal.Flush())
	events := journalEvents(t, path)
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeMessageRejected, events[0].EventType)
	assert.Equal(t, raw, events[0].Data["raw_message"])
}

func TestProcess_SellReducesPosition(t *testing.T) {
	svc, _ := newTestService(t, testLimits())

	_, err := svc.Process(encodedLimit(t, "MSFT", order.SideBuy, 500, "310.00"))
	require.NoError(t, err)
	res, err := svc.Process(encodedLimit(t, "MSFT", order.SideSell, 200, "310.00"))
	require.NoError(t, err)

	assert.Equal(t, int64(300), res.Position)
}

func TestSubmit_AcceptedOrderIsEncodedAndAcked(t *testing.T) {
	svc, path := newTestService(t, testLimits())

	o, err := order.New("AAPL", order.SideBuy, 100, decimal.RequireFromString("185.50"))
	require.NoError(t, err)

	res, err := svc.Submit(o)
	require.NoError(t, err)

	assert.Equal(t, order.StateAcked, res.Status)
	assert.Equal(t, "8=FIX.4.2|35=D|55=AAPL|54=1|38=100|44=185.50|10=154", res.FIXMessage)
	assert.Equal(t, int64(0), svc.Risk().Position("AAPL"), "submission acks without filling")

	require.NoError(t, svc.journal.Flush())
	assert.Equal(t, []string{EventTypeOrderCreated, EventTypeOrderAcked},
		eventTypes(journalEvents(t, path)))
}

func TestSubmit_RiskRejection(t *testing.T) {
	limits := testLimits()
	limits.MaxNotional = decimal.RequireFromString("100.00")
	svc, _ := newTestService(t, limits)

	o, err := order.New("AAPL", order.SideBuy, 10, decimal.RequireFromString("185.50"))
	require.NoError(t, err)

	res, err := svc.Submit(o)
	require.NoError(t, err)
	assert.Equal(t, order.StateRejected, res.Status)
	assert.Contains(t, res.Reason, "max_notional")
	assert.Empty(t, res.FIXMessage)
}

func TestProcessStream_MixedBatch(t *testing.T) {
	svc, _ := newTestService(t, testLimits())

	raws := []string{
		encodedLimit(t, "AAPL", order.SideBuy, 100, "185.50"),
		"8=FIX.4.2|35=D|gibberish",
		encodedLimit(t, "GOOG", order.SideSell, 25, "142.10"),
	}
	results := svc.ProcessStream(raws)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, order.StateFilled, results[0].Status)
	assert.Error(t, results[1].Err)
	assert.Equal(t, raws[1], results[1].Raw)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, int64(-25), results[2].Position)
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind string
	}{
		{"malformed token", "8=FIX.4.2|35=D|notatag", "malformed_message"},
		{"duplicate tag", withChecksum("8=FIX.4.2|35=D|55=AAPL|55=AAPL|54=1|38=100|44=185.50"), "duplicate_tag"},
		{"missing symbol", withChecksum("8=FIX.4.2|35=D|54=1|38=100|44=185.50"), "missing_required_field"},
		{"checksum mismatch", "8=FIX.4.2|35=D|55=AAPL|54=1|38=100|44=185.50|10=999", "checksum_mismatch"},
		{"invalid quantity", withChecksum("8=FIX.4.2|35=D|55=AAPL|54=1|38=abc|44=185.50"), "invalid_field"},
		{"unknown tag", withChecksum("8=FIX.4.2|35=D|55=AAPL|54=1|38=100|44=185.50|999=x"), "unknown_tag"},
		{"execution report", withChecksum("8=FIX.4.2|35=8|55=AAPL|54=1|38=100|44=185.50"), "unsupported_message_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fix.Decode(tc.raw)
			require.Error(t, err)
			assert.Equal(t, tc.kind, ErrorKind(err))
		})
	}

	assert.Equal(t, "internal", ErrorKind(assert.AnError))
}

func TestJournal_NilReceiverDiscards(t *testing.T) {
	var j *Journal
	j.Record(EventTypeOrderCreated, uuid.New(), "AAPL", nil)
	assert.NoError(t, j.Flush())
	assert.NoError(t, j.Close())
}
