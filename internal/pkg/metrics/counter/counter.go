package counter

import (
	"context"
	"strconv"

	"github.com/payhive/paygate/internal/pkg/cache"
)

const gatewayEventsKey = "gateway:counters:events"

// Event field names inside the Redis hash.
const (
	EventApprovalSuccess = "approval_success"
	EventApprovalFailed  = "approval_failed"
	EventCancel          = "cancel"
	EventBillingCharge   = "billing_charge"
	EventWebhookReceived = "webhook_received"
)

// Add increments the named gateway event counter in Redis.
// Counting is best effort, a Redis hiccup must never fail a payment.
func Add(event string) {
	_ = cache.GetClient().HIncrBy(context.Background(), gatewayEventsKey, event, 1).Err()
}

// Snapshot returns the current counter values.
func Snapshot(ctx context.Context) (map[string]int64, error) {
	raw, err := cache.GetClient().HGetAll(ctx, gatewayEventsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil {
			continue
		}
		out[field] = n
	}
	return out, nil
}
