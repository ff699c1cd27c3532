package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Handler(logger)

	require.NoError(t, h(context.Background(), events.NewUserCreated(7, "a@example.com")))
	assert.Contains(t, buf.String(), "event_type=UserCreated")
	assert.Contains(t, buf.String(), "user_id=7")
	assert.NotContains(t, buf.String(), "a@example.com")

	buf.Reset()
	require.NoError(t, h(context.Background(), events.NewTransactionCreated(3, 7, "trade", "AAPL")))
	out := buf.String()
	assert.Contains(t, out, "event_type=TransactionCreated")
	assert.Contains(t, out, "transaction_id=3")
	assert.Contains(t, out, "asset_symbol=AAPL")
}
