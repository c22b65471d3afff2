package bus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/hammamikhairi/lrcshow/internal/domain"
)

// decodeSignal turns a daemon signal into a domain event. Signals from
// other interfaces yield (nil, nil).
func decodeSignal(sig *dbus.Signal) (domain.Event, error) {
	if sig == nil {
		return nil, nil
	}
	switch sig.Name {
	case DaemonInterface + "." + SignalLyricsChanged:
		return domain.LyricsChanged{}, nil
	case DaemonInterface + "." + SignalSegmentChanged:
		pos, err := decodePosition(sig.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SignalSegmentChanged, err)
		}
		return domain.ActiveSegmentChanged{Position: pos}, nil
	default:
		return nil, nil
	}
}

// decodePosition reads (line, from, to[, elapsed]) from a signal body.
// The daemon sends four int32s; the elapsed time is optional so that a
// three-argument sender also works.
func decodePosition(body []interface{}) (domain.Position, error) {
	if len(body) < 3 {
		return domain.NoPosition, fmt.Errorf("%w: want at least 3 arguments, got %d", domain.ErrBadSignal, len(body))
	}
	vals := make([]int, 4)
	vals[3] = -1
	for i := 0; i < len(body) && i < 4; i++ {
		v, ok := body[i].(int32)
		if !ok {
			return domain.NoPosition, fmt.Errorf("%w: argument %d is %T, want int32", domain.ErrBadSignal, i, body[i])
		}
		vals[i] = int(v)
	}
	return domain.Position{
		LineIndex: vals[0],
		CharFrom:  vals[1],
		CharTo:    vals[2],
		Elapsed:   vals[3],
	}, nil
}
