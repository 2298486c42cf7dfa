package services

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/KKTT/catalog-shop-sub000/models"
	"github.com/KKTT/catalog-shop-sub000/utils"
)

// statusLabels maps each status to its display label. This is a
// presentation-layer lookup; the status engine itself carries no display
// concerns beyond action labels.
var statusLabels = map[models.OrderStatus]string{
	models.StatusPending:         "Pending",
	models.StatusConfirmed:       "Confirmed",
	models.StatusShipping:        "Shipping",
	models.StatusDelivered:       "Delivered",
	models.StatusComplete:        "Complete",
	models.StatusCancelled:       "Cancelled",
	models.StatusReturnRequested: "Return Requested",
}

// StatusLabel returns the display label for a status, falling back to the
// raw tag for statuses written by other collaborators
func StatusLabel(s models.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// invoiceLine is one rendered line item
type invoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// invoiceData is the flattened view the invoice template renders
type invoiceData struct {
	OrderID      string
	CustomerName string
	StatusLabel  string
	CreatedAt    string
	Address      *models.DeliveryAddress
	Lines        []invoiceLine
	Subtotal     float64
	DeliveryFee  float64
	GrandTotal   float64
}

// invoicePage is a self-contained printable document: inline styles, no
// scripts, no external resources.
const invoicePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.OrderID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
td.amount, th.amount { text-align: right; }
tfoot td { border-bottom: none; }
tfoot tr.total td { font-weight: bold; border-top: 2px solid #222; }
.meta { color: #555; }
</style>
</head>
<body>
<h1>Invoice</h1>
<p class="meta">
Order {{.OrderID}}<br>
Placed {{.CreatedAt}}<br>
Status: {{.StatusLabel}}
</p>
<p>
{{.CustomerName}}{{if .Address}}<br>
{{.Address.AddressLine}}{{if .Address.City}}, {{.Address.City}}{{end}}{{if .Address.PhoneNumber}}<br>
{{.Address.PhoneNumber}}{{end}}{{end}}
</p>
<table>
<thead>
<tr><th>Item</th><th class="amount">Qty</th><th class="amount">Unit Price</th><th class="amount">Total</th></tr>
</thead>
<tbody>
{{range .Lines}}<tr>
<td>{{.Name}}</td>
<td class="amount">{{.Quantity}}</td>
<td class="amount">{{money .UnitPrice}}</td>
<td class="amount">{{money .LineTotal}}</td>
</tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="3">Subtotal</td><td class="amount">{{money .Subtotal}}</td></tr>
<tr><td colspan="3">Delivery Fee</td><td class="amount">{{money .DeliveryFee}}</td></tr>
<tr class="total"><td colspan="3">Grand Total</td><td class="amount">{{money .GrandTotal}}</td></tr>
</tfoot>
</table>
</body>
</html>
`

var invoiceTemplate = template.Must(
	template.New("invoice").
		Funcs(template.FuncMap{"money": utils.FormatMoney}).
		Parse(invoicePage),
)

// RenderInvoice turns an assembled order into a printable HTML document.
// The grand total is the order's TotalAmount snapshot as-is: if it diverges
// from the recomputed subtotal plus fee, the snapshot still wins (the
// divergence is an upstream data-integrity concern, not the renderer's).
func RenderInvoice(order *models.Order) ([]byte, error) {
	if order == nil {
		return nil, errors.New("order is required")
	}

	data := invoiceData{
		OrderID:      order.ID,
		CustomerName: order.Customer.Name,
		StatusLabel:  StatusLabel(order.Status),
		CreatedAt:    order.CreatedAt.Format("January 2, 2006"),
		Address:      order.DeliveryAddress,
		DeliveryFee:  order.DeliveryFee,
		GrandTotal:   order.TotalAmount,
	}

	if data.DeliveryFee == 0 {
		data.DeliveryFee = models.DefaultDeliveryFee
	}

	for _, item := range order.Items {
		lineTotal := utils.LineTotal(item.Price, item.Quantity)
		data.Lines = append(data.Lines, invoiceLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
		data.Subtotal += lineTotal
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
