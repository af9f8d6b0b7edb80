package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayatfoundation/site/internal/config"
)

func TestNewGateway_DisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewGateway(config.Payment{}))
}

func TestNewGateway_Configured(t *testing.T) {
	g := NewGateway(config.Payment{SecretKey: "SB-Mid-server-test"})
	require.NotNil(t, g)
	_, ok := g.(*SnapGateway)
	assert.True(t, ok)
}

func TestCreateCheckout_RejectsNonPositiveAmount(t *testing.T) {
	g := NewGateway(config.Payment{SecretKey: "SB-Mid-server-test"})
	_, err := g.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "DON-1", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateCheckout_CancelledContext(t *testing.T) {
	g := NewGateway(config.Payment{SecretKey: "SB-Mid-server-test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.CreateCheckout(ctx, CheckoutRequest{OrderID: "DON-1", Amount: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "تبرع", truncate("تبرع", 10))
	assert.Equal(t, "ab", truncate("abc", 2))
}
