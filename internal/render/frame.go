package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/pricing"
	"github.com/iliyamo/venue-seating-map/internal/seatstyle"
	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

// SeatWidget is everything needed to draw one seat.
type SeatWidget struct {
	ID          string
	CX, CY, R   float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	TabIndex    int
	Selected    bool
	Focused     bool
	Disabled    bool
	Label       string
}

// Cursor is the pointer affordance for the seat.
func (w SeatWidget) Cursor() string {
	if w.Disabled {
		return "not-allowed"
	}
	return "pointer"
}

// RowView is a labelled row.
type RowView struct {
	Index  int
	LabelY float64
	Seats  []SeatWidget
}

// SectionView is a section with its placement transform.
type SectionView struct {
	ID        string
	Label     string
	Transform string
	Rows      []RowView
}

// Frame is a fully resolved drawing of the map.
type Frame struct {
	Name      string
	Width     float64
	Height    float64
	Transform string
	Animated  bool
	Mode      ViewMode
	Sections  []SectionView
}

// Input is the state a frame is derived from.  Hovered is the render-local
// hover target and never comes from the selection store.
type Input struct {
	Selection selection.Snapshot
	Viewport  viewport.State
	Hovered   string
	Mode      ViewMode
}

// Frame derives the drawing for the given state.
func (m *Map) Frame(in Input) Frame {
	selected := in.Selection.IDs()
	focused := in.Selection.FocusedID()
	f := Frame{
		Name:      m.venue.Name,
		Width:     m.venue.Map.Width,
		Height:    m.venue.Map.Height,
		Transform: in.Viewport.Transform(),
		Animated:  in.Viewport.Animated(),
		Mode:      in.Mode,
		Sections:  make([]SectionView, 0, len(m.venue.Sections)),
	}
	for _, sec := range m.venue.Sections {
		sv := SectionView{
			ID:        sec.ID,
			Label:     sec.Label,
			Transform: sectionTransform(sec.Transform),
			Rows:      make([]RowView, 0, len(sec.Rows)),
		}
		for _, row := range sec.Rows {
			rv := RowView{Index: row.Index, Seats: make([]SeatWidget, 0, len(row.Seats))}
			if len(row.Seats) > 0 {
				rv.LabelY = row.Seats[0].Y + seatstyle.SeatRadius/2 + 3
			}
			for _, seat := range row.Seats {
				_, isSelected := selected[seat.ID]
				rv.Seats = append(rv.Seats, m.widget(seat, sec.Label, row.Index, isSelected,
					seat.ID == in.Hovered && seat.Available(), seat.ID == focused, in.Mode))
			}
			sv.Rows = append(sv.Rows, rv)
		}
		f.Sections = append(f.Sections, sv)
	}
	return f
}

func (m *Map) widget(seat model.Seat, section string, row int, selected, hovered, focused bool, mode ViewMode) SeatWidget {
	disabled := !seat.Available()
	w := SeatWidget{
		ID:          seat.ID,
		CX:          seat.X,
		CY:          seat.Y,
		R:           seatstyle.SeatRadius,
		Fill:        mode.fill(seat, selected, hovered),
		Stroke:      seatstyle.ResolveStroke(selected, hovered, focused),
		StrokeWidth: seatstyle.StrokeWidth,
		Opacity:     1,
		Selected:    selected,
		Focused:     focused,
		Disabled:    disabled,
		Label:       SeatLabel(seat, section, row),
	}
	if focused {
		w.StrokeWidth = seatstyle.FocusedStrokeWidth
	}
	if disabled {
		w.TabIndex = -1
		w.Opacity = seatstyle.DisabledOpacity
	}
	return w
}

// SeatLabel is the accessible name of a seat.
func SeatLabel(seat model.Seat, section string, row int) string {
	price := pricing.PriceForTier(seat.PriceTier)
	return fmt.Sprintf("%s Row %d Seat %d, %s, %s", section, row, seat.Col, price.Short(), seat.Status)
}

func sectionTransform(t model.Transform) string {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return viewport.State{Zoom: scale, Pan: viewport.Point{X: t.X, Y: t.Y}}.Transform()
}

// Render writes the frame as an SVG document fragment.
func (f Frame) Render(w io.Writer) error {
	return svgTemplate.Execute(w, f)
}

// HTML returns the frame as markup safe to embed in a page.
func (f Frame) HTML() (template.HTML, error) {
	var b strings.Builder
	if err := f.Render(&b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

var svgTemplate = template.Must(template.New("map").Parse(`<svg xmlns="http://www.w3.org/2000/svg" id="seating-map" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="application" aria-label="{{.Name}} seating map" data-mode="{{.Mode}}">
<g id="viewport" transform="{{.Transform}}" style="transform-origin: 0 0;{{if .Animated}} transition: transform 0.2s ease;{{end}}">
{{- range .Sections}}
<g class="section" data-section="{{.ID}}" transform="{{.Transform}}">
<rect x="10" y="10" width="150" height="30" fill="#f9fafb" opacity="0.7" rx="4"/>
<text x="20" y="32" font-size="12" font-weight="bold" fill="#111827" aria-label="Section {{.Label}}">{{.Label}}</text>
{{- range .Rows}}
<g class="row" data-row="{{.Index}}">
<text x="-30" y="{{.LabelY}}" font-size="12" font-weight="bold" fill="#4b5563" text-anchor="end" aria-label="Row {{.Index}}">{{.Index}}</text>
{{- range .Seats}}
<circle class="seat" data-seat="{{.ID}}" cx="{{.CX}}" cy="{{.CY}}" r="{{.R}}" fill="{{.Fill}}" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}" opacity="{{.Opacity}}" style="cursor: {{.Cursor}}" role="button" tabindex="{{.TabIndex}}" aria-label="{{.Label}}" aria-pressed="{{.Selected}}" aria-disabled="{{.Disabled}}"/>
{{- end}}
</g>
{{- end}}
</g>
{{- end}}
</g>
</svg>
`))
