package present

import (
	"html/template"
	"io"
)

// PageState is the readiness of the page.
type PageState string

const (
	StateLoading PageState = "loading"
	StateError   PageState = "error"
	StateReady   PageState = "ready"
)

// Page is everything the full-page view needs.
type Page struct {
	State   PageState
	Error   string
	Header  Header
	Map     template.HTML
	Mode    string
	Details Details
	Summary Summary
}

// Render writes the page.
func (p Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if eq .State "ready"}}{{.Header.Name}} – {{end}}Seating</title>
{{- if eq .State "loading"}}
<meta http-equiv="refresh" content="1">
{{- end}}
</head>
<body>
<main id="app" data-state="{{.State}}">
{{- if eq .State "loading"}}
<section class="loader" role="status">Loading venue data...</section>
{{- else if eq .State "error"}}
<section class="error" role="alert">
<h2>Failed to Load Venue</h2>
<p>{{.Error}}</p>
<button data-action="retry">Try Again</button>
</section>
{{- else}}
<header class="venue-header">
<h1>{{.Header.Name}}</h1>
<p class="venue-id">{{.Header.ID}}</p>
<dl class="stats">
<dt>Total Seats</dt><dd>{{.Header.TotalSeats}}</dd>
<dt>Sections</dt><dd>{{.Header.Sections}}</dd>
</dl>
<ul class="legend">
{{- range .Header.Legend}}
<li><span class="swatch" style="background-color: {{.Color}}"></span>{{.Label}} ({{.Count}})</li>
{{- end}}
</ul>
</header>
<section class="map-panel">
<div class="toolbar">
<button data-action="zoom-in" aria-label="Zoom in">+</button>
<button data-action="zoom-out" aria-label="Zoom out">−</button>
<button data-action="reset">Reset view</button>
<select data-action="view-mode" aria-label="View mode">
<option value="normal"{{if eq .Mode "normal"}} selected{{end}}>Normal</option>
<option value="heatmap"{{if eq .Mode "heatmap"}} selected{{end}}>Price heatmap</option>
<option value="availability"{{if eq .Mode "availability"}} selected{{end}}>Availability</option>
</select>
</div>
<div class="map-surface">{{.Map}}</div>
</section>
<aside class="seat-details">
{{- if .Details.Empty}}
<p>Select a seat to view details</p>
{{- else}}
<h3>{{.Details.Location}}</h3>
<p class="status"><span class="dot" style="background-color: {{.Details.StatusColor}}"></span>{{.Details.Status}}</p>
<p class="price">{{.Details.Price}}</p>
<p class="seat-id">{{.Details.SeatID}}</p>
{{- if .Details.Selectable}}
<p class="hint">✓ Available for selection</p>
{{- end}}
{{- end}}
</aside>
<section class="summary">
{{- if .Summary.Empty}}
<h3>No Seats Selected</h3>
<p>Click on available seats to start building your order</p>
{{- else}}
<h3>Order Summary</h3>
<p>{{.Summary.Count}}/{{.Summary.Capacity}} seats selected</p>
<div class="progress"><div style="width: {{.Summary.Progress}}%"></div></div>
<p class="remaining">{{.Summary.RemainingText}}</p>
<ul class="lines">
{{- range .Summary.Lines}}
<li>{{.Location}} <span>{{.Price}}</span> <button data-action="remove" data-seat="{{.SeatID}}" aria-label="Remove {{.Location}}">×</button></li>
{{- end}}
</ul>
<dl class="totals">
<dt>Subtotal</dt><dd>{{.Summary.Subtotal}}</dd>
<dt>Service Fee (5%)</dt><dd>{{.Summary.Fee}}</dd>
<dt>Total</dt><dd>{{.Summary.Total}}</dd>
</dl>
<button data-action="checkout">{{.Summary.CheckoutLabel}}</button>
<button data-action="clear">Clear Selection</button>
{{- end}}
</section>
{{- end}}
</main>
<script>
(() => {
  const post = (path, body) => fetch(path, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body || {})});
  const del = (path) => fetch(path, {method: "DELETE"});
  const seatOf = (el) => el && el.closest && el.closest("circle.seat");
  const seatPath = (s, action) => "/v1/seats/" + encodeURIComponent(s.dataset.seat) + "/" + action;
  let swapping = false;
  let hovered = "";
  // The swap replaces every seat node; the seat that held focus is focused
  // again so keyboard navigation continues from it.
  const refresh = () => fetch(location.pathname).then(r => r.text()).then(html => {
    const doc = new DOMParser().parseFromString(html, "text/html");
    const active = seatOf(document.activeElement);
    const focusID = active ? active.dataset.seat : "";
    swapping = true;
    try {
      document.getElementById("app").replaceWith(doc.getElementById("app"));
      if (focusID) {
        const seat = document.querySelector('circle.seat[data-seat="' + CSS.escape(focusID) + '"]');
        if (seat) seat.focus();
      }
    } finally {
      swapping = false;
    }
  });
  const then = (p) => p.then(refresh);
  const surfacePoint = (e) => {
    const box = document.querySelector(".map-surface").getBoundingClientRect();
    return {x: e.clientX - box.left, y: e.clientY - box.top};
  };
  const actions = {
    "retry": () => post("/v1/retry"),
    "zoom-in": () => post("/v1/viewport/zoom-in"),
    "zoom-out": () => post("/v1/viewport/zoom-out"),
    "reset": () => post("/v1/viewport/reset"),
    "clear": () => del("/v1/selection"),
    "checkout": () => post("/v1/checkout"),
    "remove": (el) => del("/v1/selection/" + encodeURIComponent(el.dataset.seat)),
  };
  document.addEventListener("click", (e) => {
    const seat = seatOf(e.target);
    if (seat) { then(post(seatPath(seat, "click"))); return; }
    const el = e.target.closest && e.target.closest("button[data-action]");
    if (el && actions[el.dataset.action]) then(actions[el.dataset.action](el));
  });
  document.addEventListener("change", (e) => {
    if (e.target.dataset.action === "view-mode") then(post("/v1/view-mode", {mode: e.target.value}));
  });
  document.addEventListener("keydown", (e) => {
    const seat = seatOf(e.target);
    if (seat && (e.key === "Enter" || e.key === " ")) {
      e.preventDefault();
      then(post(seatPath(seat, "key"), {key: e.key}));
    }
  });
  document.addEventListener("focusin", (e) => {
    const s = seatOf(e.target);
    if (s && !swapping) then(post(seatPath(s, "focus")));
  });
  document.addEventListener("focusout", (e) => {
    const s = seatOf(e.target);
    if (s && !swapping && !seatOf(e.relatedTarget)) post(seatPath(s, "blur"));
  });
  document.addEventListener("mouseover", (e) => {
    const s = seatOf(e.target);
    if (!s || s.dataset.seat === hovered) return;
    hovered = s.dataset.seat;
    then(post(seatPath(s, "enter")));
  });
  document.addEventListener("mouseout", (e) => {
    const s = seatOf(e.target);
    if (!s || swapping || seatOf(e.relatedTarget)) return;
    hovered = "";
    then(post(seatPath(s, "leave")));
  });
  document.addEventListener("wheel", (e) => {
    if (!e.target.closest || !e.target.closest(".map-surface")) return;
    const modifier = e.ctrlKey || e.metaKey;
    if (modifier) e.preventDefault();
    then(post("/v1/viewport/wheel", {delta_y: e.deltaY, modifier: modifier}));
  }, {passive: false});
  document.addEventListener("pointerdown", (e) => {
    if (!e.target.closest || !e.target.closest(".map-surface")) return;
    const seat = seatOf(e.target);
    post("/v1/viewport/pointer-down", Object.assign(surfacePoint(e), {seat_id: seat ? seat.dataset.seat : ""}));
    if (seat) return;
    let frame = 0;
    const move = (ev) => {
      if (frame) return;
      frame = requestAnimationFrame(() => { frame = 0; then(post("/v1/viewport/pointer-move", surfacePoint(ev))); });
    };
    const up = () => {
      document.removeEventListener("pointermove", move);
      document.removeEventListener("pointerup", up);
      then(post("/v1/viewport/pointer-up"));
    };
    document.addEventListener("pointermove", move);
    document.addEventListener("pointerup", up);
  });
})();
</script>
</body>
</html>
`))
