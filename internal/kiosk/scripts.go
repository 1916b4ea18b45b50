// internal/kiosk/scripts.go
package kiosk

import (
	"encoding/json"
	"fmt"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// viewportBinding is the name of the function the hook script calls to push
// viewport changes back into Go.
const viewportBinding = "__screenfit_viewport_event"

// viewportSizeScript reads the current inner viewport dimensions. The keys
// match the schemas.Size JSON tags so chromedp can unmarshal directly.
const viewportSizeScript = `({width: window.innerWidth, height: window.innerHeight})`

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Strings always marshal; this guards against future type changes.
		return `""`
	}
	return string(b)
}

// hookScript installs a resize listener that reports viewport changes
// through the exposed binding. It is injected persistently so navigations
// re-arm it, and it guards against double installation.
func hookScript() string {
	return fmt.Sprintf(`(() => {
    if (window.__screenfit_hooked) { return; }
    window.__screenfit_hooked = true;
    const report = () => {
        if (typeof window[%[1]s] === "function") {
            window[%[1]s](JSON.stringify({
                width: window.innerWidth,
                height: window.innerHeight
            }));
        }
    };
    window.addEventListener("resize", report, { passive: true });
    window.addEventListener("orientationchange", report, { passive: true });
})();`, jsString(viewportBinding))
}

// existsScript checks whether a selector resolves to an element.
func existsScript(selector string) string {
	return fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
}

// metricsScript reads the declared and computed box of the selected element
// plus the bounding rectangles of its element children. It returns null when
// the element has vanished. Key names match the schemas.BoxMetrics JSON tags.
func metricsScript(selector string) string {
	return fmt.Sprintf(`(() => {
    const el = document.querySelector(%s);
    if (!el) { return null; }
    const cs = window.getComputedStyle(el);
    const num = (v) => { const f = parseFloat(v); return Number.isFinite(f) ? f : 0; };
    const out = {
        computed: { width: num(cs.width), height: num(cs.height) },
        inline: { width: num(el.style.width), height: num(el.style.height) },
        children: []
    };
    const base = el.getBoundingClientRect();
    for (const child of el.children) {
        const r = child.getBoundingClientRect();
        out.children.push({ x: r.x - base.x, y: r.y - base.y, width: r.width, height: r.height });
    }
    return out;
})()`, jsString(selector))
}

// applyScript applies a style plan's rules in order. It resolves rule
// targets against the two bound selectors, returning false if either main
// element has vanished so the caller can keep the previous layout.
func applyScript(viewportSel, contentSel string, rules []schemas.StyleRule) (string, error) {
	payload, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("could not encode style rules: %w", err)
	}
	script := fmt.Sprintf(`(() => {
    const viewport = document.querySelector(%s);
    const content = document.querySelector(%s);
    if (!viewport || !content) { return false; }
    const rules = %s;
    const resolve = (target) => {
        switch (target) {
            case "viewport": return viewport;
            case "content": return content;
            case "first-child": return content.firstElementChild;
            default: return null;
        }
    };
    for (const rule of rules) {
        const el = resolve(rule.target);
        if (el) { el.style.setProperty(rule.property, rule.value); }
    }
    return true;
})()`, jsString(viewportSel), jsString(contentSel), string(payload))
	return script, nil
}

// parseViewportPayload decodes the JSON pushed through the viewport binding.
func parseViewportPayload(payload string) (schemas.Size, error) {
	var size schemas.Size
	if err := json.Unmarshal([]byte(payload), &size); err != nil {
		return schemas.Size{}, fmt.Errorf("could not decode viewport event payload: %w", err)
	}
	return size, nil
}
