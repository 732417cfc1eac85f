package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// ErrSettleTimeout reports that an element kept moving past the settle
// deadline. Checks record it as a warning rather than aborting.
var ErrSettleTimeout = errors.New("browser: element did not settle before timeout")

type boundingRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Sub-pixel jitter from layout rounding is not movement.
func (r boundingRect) approxEqual(o boundingRect) bool {
	const eps = 0.5
	return math.Abs(r.X-o.X) < eps &&
		math.Abs(r.Y-o.Y) < eps &&
		math.Abs(r.W-o.W) < eps &&
		math.Abs(r.H-o.H) < eps
}

// WaitSettled polls the bounding box of the first element matching selector
// until it has been stable for quiet, giving up after timeout. This replaces
// a flat animation sleep: scroll and entry transitions move the box, so a
// quiet box means the animation is done. An absent element settles trivially.
func (p *Page) WaitSettled(ctx context.Context, selector string, quiet, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var last boundingRect
	havePrev := false
	stableSince := time.Now()

	for {
		rect, found, err := p.elementRect(ctx, selector)
		if err != nil {
			return err
		}
		if !found {
			p.log.Debug("settle target absent", zap.String("selector", selector))
			return nil
		}

		now := time.Now()
		if !havePrev || !rect.approxEqual(last) {
			last = rect
			havePrev = true
			stableSince = now
		} else if now.Sub(stableSince) >= quiet {
			return nil
		}

		if now.After(deadline) {
			return fmt.Errorf("%w: %s after %s", ErrSettleTimeout, selector, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// elementRect reads the element's bounding client rect inside the page's own
// execution context.
func (p *Page) elementRect(ctx context.Context, selector string) (boundingRect, bool, error) {
	res, err := p.page.Context(ctx).Timeout(pollEvalTimeout).Evaluate(&rod.EvalOptions{
		JS: `(sel) => {
			const el = document.querySelector(sel);
			if (!el) return null;
			const r = el.getBoundingClientRect();
			return { x: r.x, y: r.y, w: r.width, h: r.height };
		}`,
		JSArgs:       []interface{}{selector},
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return boundingRect{}, false, fmt.Errorf("poll rect of %q: %w", selector, err)
	}
	if res == nil || res.Value.Nil() {
		return boundingRect{}, false, nil
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return boundingRect{}, false, fmt.Errorf("marshal rect: %w", err)
	}
	var rect boundingRect
	if err := json.Unmarshal(raw, &rect); err != nil {
		return boundingRect{}, false, fmt.Errorf("decode rect: %w", err)
	}
	return rect, true, nil
}
