package email

import (
	"html/template"
	"strings"

	"github.com/example/storefront/internal/order"
)

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px;">New order #{{.OrderID}}</h1>
	<p>Placed at {{.PlacedAt.Format "2006-01-02 15:04:05 MST"}}.</p>
	<table style="width: 100%; border-collapse: collapse;">
		<thead>
			<tr style="background: #f4f4f4;">
				<th style="padding: 8px; text-align: left;">Product</th>
				<th style="padding: 8px; text-align: left;">Options</th>
				<th style="padding: 8px; text-align: center;">Qty</th>
				<th style="padding: 8px; text-align: right;">Unit price</th>
			</tr>
		</thead>
		<tbody>
		{{range .Items}}
			<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; font-family: monospace;">{{.Options}}</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">{{.UnitPrice}}</td>
			</tr>
		{{end}}
		</tbody>
	</table>
	<p style="text-align: right; font-size: 18px;"><strong>Total: {{.Total}}</strong></p>
</body>
</html>`))

// BuildOrderConfirmationBody renders the HTML body for an order
// confirmation.
func BuildOrderConfirmationBody(placed order.Placed) (string, error) {
	var b strings.Builder
	if err := confirmationTmpl.Execute(&b, placed); err != nil {
		return "", err
	}
	return b.String(), nil
}
