package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/statemachine"
)

// MsgCancelled is the 400 message for changing a cancelled order.
const MsgCancelled = "Đơn hàng đã bị hủy"

// Lifecycle lists the statuses each status may move to. Delivered and
// Cancelled are final.
var Lifecycle = map[string][]string{
	StatusPending:    {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// newLifecycle builds the status machine. Every move into Cancelled returns
// the order's items to stock.
func newLifecycle(restock func(context.Context, []Item)) *statemachine.Machine[string] {
	release := statemachine.WithAction(func(ctx context.Context, _, _ string, data any) error {
		if o, ok := data.(*Order); ok {
			restock(ctx, o.Products)
		}
		return nil
	})

	var opts []statemachine.Option[string]
	for _, from := range Statuses {
		for _, to := range Lifecycle[from] {
			if to == StatusCancelled {
				opts = append(opts, statemachine.WithTransition(from, to, release))
				continue
			}
			opts = append(opts, statemachine.WithTransition[string](from, to))
		}
	}
	return statemachine.MustNew(opts...)
}

func lifecycleError(from, to string, err error) error {
	if !statemachine.IsNoTransition[string](err) {
		return err
	}
	if from == StatusCancelled {
		return handler.NewHTTPError(http.StatusBadRequest, MsgCancelled)
	}
	return handler.NewHTTPError(http.StatusBadRequest,
		fmt.Sprintf("Không thể chuyển đơn hàng từ %s sang %s", from, to))
}
