package web

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	vm "github.com/exhibitops/floorwatch/internal/adapter/driving/web/viewmodel"
)

// Layout wraps a page component in the shared HTML shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="de"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/static/css/dashboard.css"></head><body>`,
			templ.EscapeString(title),
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<script src="/static/js/dashboard.js"></script></body></html>`)
		return err
	})
}

// DashboardPage renders the floor plan with its warning list and legend.
func DashboardPage(view vm.Dashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<header class="topbar"><h1>Besucherübersicht</h1><span class="updated">Stand %s</span></header><main>`,
			templ.EscapeString(view.Updated),
		); err != nil {
			return err
		}

		if err := floorPlan(view.Areas).Render(ctx, w); err != nil {
			return err
		}
		if err := warningList(view.Warnings).Render(ctx, w); err != nil {
			return err
		}
		if err := legendTable(view.Legend).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

// floorPlan renders each active area as a colored polygon with its labels.
func floorPlan(areas []vm.AreaTile) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<svg class="floor-plan" viewBox="0 0 1000 600">`); err != nil {
			return err
		}

		for _, area := range areas {
			class := "area"
			if area.Blinking {
				class = "area blinking"
			}
			if _, err := fmt.Fprintf(w,
				`<g class="%s" data-area-id="%d"><polygon points="%s" fill="%s"/>`,
				class, area.ID, templ.EscapeString(area.Points), templ.EscapeString(area.Color),
			); err != nil {
				return err
			}

			if area.Name != "" {
				if _, err := fmt.Fprintf(w, `<text class="area-name">%s</text>`, templ.EscapeString(area.Name)); err != nil {
					return err
				}
			}
			if area.CountLabel != "" {
				if _, err := fmt.Fprintf(w, `<text class="area-count">%s</text>`, templ.EscapeString(area.CountLabel)); err != nil {
					return err
				}
			}
			if area.PercentLabel != "" {
				if _, err := fmt.Fprintf(w, `<text class="area-percent">%s</text>`, templ.EscapeString(area.PercentLabel)); err != nil {
					return err
				}
			}

			if _, err := io.WriteString(w, `</g>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</svg>`)
		return err
	})
}

// warningList renders the active security warnings. Messages arrive as
// already sanitized HTML and are emitted raw.
func warningList(warnings []vm.WarningRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(warnings) == 0 {
			_, err := io.WriteString(w, `<section class="warnings empty"></section>`)
			return err
		}

		if _, err := io.WriteString(w, `<section class="warnings"><h2>Warnungen</h2><ul>`); err != nil {
			return err
		}
		for _, warn := range warnings {
			if _, err := fmt.Fprintf(w, `<li><strong>%s</strong> `, templ.EscapeString(warn.AreaName)); err != nil {
				return err
			}
			if err := templ.Raw(warn.MessageHTML).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

// legendTable renders the display-only legend.
func legendTable(rows []vm.LegendRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(rows) == 0 {
			return nil
		}

		if _, err := io.WriteString(w, `<section class="legend"><h2>Legende</h2><table><tbody>`); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w,
				`<tr class="legend-%s"><td><span class="swatch" style="background:%s"></span></td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(row.BandType),
				templ.EscapeString(row.Object),
				templ.EscapeString(row.DescriptionDE),
				templ.EscapeString(row.DescriptionEN),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}
