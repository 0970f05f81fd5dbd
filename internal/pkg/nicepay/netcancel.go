package nicepay

import (
	"context"
	"log"
)

// ApproveWithNetCancel wraps the approval call with the compensating
// net-cancellation. If approval fails with a transport fault the charge
// outcome is unknown, so exactly one net-cancel is issued against the same
// order and amount; the processor honors it for one hour.
//
// Outcomes:
//   - approval succeeded: the response is returned unchanged.
//   - approval network-faulted and net-cancel succeeded: a
//     NETWORK_CANCELLED error is returned; the charge is voided.
//   - approval network-faulted and net-cancel itself failed: money state is
//     unknown. This is logged at the highest severity for manual
//     reconciliation (inquiry by order id), and the same NETWORK_CANCELLED
//     error is still returned so the payment is optimistically marked
//     failed rather than left hanging.
//
// Business rejections pass through untouched; the processor documents that
// no charge occurs on a rejected approval, so there is nothing to
// compensate.
func ApproveWithNetCancel(ctx context.Context, client *Client, tid string, amount int64, orderID string) (*ApprovalResponse, error) {
	resp, err := client.Approve(ctx, tid, amount)
	if err == nil {
		return resp, nil
	}
	if !IsNetworkFault(err) {
		return nil, err
	}

	log.Printf("WARN approval timeout/network error for order %s (tid %s, code %s), initiating net-cancel", orderID, tid, CodeOf(err))

	ncResp, ncErr := client.NetCancel(ctx, orderID, amount)
	switch {
	case ncErr != nil:
		log.Printf("CRITICAL net-cancel failed for order %s: %v; money state unknown, reconcile manually via inquiry", orderID, ncErr)
	case ncResp.ResultCode != ResultCodeSuccess:
		log.Printf("CRITICAL net-cancel rejected for order %s: %s (%s); money state unknown, reconcile manually via inquiry", orderID, ncResp.ResultMsg, ncResp.ResultCode)
	default:
		log.Printf("WARN net-cancel completed for order %s", orderID)
	}

	return nil, NewNetworkCancelledError(orderID)
}
