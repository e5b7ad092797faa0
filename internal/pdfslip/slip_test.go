package pdfslip

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSlip() *Slip {
	return &Slip{
		OrderID:       42,
		PaymentMethod: "cod",
		Source:        "whatsapp",
		CustomerName:  "Sanika",
		MobileNumber:  "919529111760",
		Address:       "MG Road, Pune",
		Items: []Item{
			{
				Name:            "Bhajani Chakali",
				BrandName:       "Chakali Store",
				Quantity:        2,
				DiscountPercent: 10,
				UnitPrice:       162,
				MRP:             180,
				OfferText:       "No active offer",
				Weight:          "500g",
				ItemsPerPack:    1,
				RegionOfOrigin:  "India",
				NetQuantity:     "500g",
			},
		},
		Subtotal:       324,
		DeliveryCharge: 40,
		Total:          364,
	}
}

func TestSlipLines_Layout(t *testing.T) {
	lines := sampleSlip().lines()

	assert.Equal(t, []string{
		"New product order via WhatsApp",
		"Order ID: 42",
		"Source: whatsapp",
		"Payment: Cash on Delivery",
		"",
		"Item 1",
		"Item Name: Bhajani Chakali",
		"Brand Name: Chakali Store",
		"Discount: 10%",
		"Price: Rs. 162",
		"MRP: Rs. 180",
		"Offer: No active offer",
		"Weight: 500g",
		"Number of Items: 1",
		"Region of Origin: India",
		"Net Quantity: 500g",
		"Quantity Ordered: 2",
		"",
		"Customer Name: Sanika",
		"Mobile Number: 919529111760",
		"Address: MG Road, Pune",
		"Live Location: Not provided",
		"Subtotal: Rs. 324",
		"Delivery: Rs. 40",
		"Total: Rs. 364",
	}, lines)
}

func TestSlipLines_OnlinePaymentAndLiveLocation(t *testing.T) {
	s := sampleSlip()
	s.PaymentMethod = "online"
	s.LiveLocationURL = "https://maps.example/pin"

	lines := s.lines()
	assert.Contains(t, lines, "Payment: Online")
	assert.Contains(t, lines, "Live Location: https://maps.example/pin")
}

func TestSlipLines_TotalsRounded(t *testing.T) {
	s := sampleSlip()
	s.Subtotal = 10.4
	s.DeliveryCharge = 0.5
	s.Total = 10.9

	lines := s.lines()
	assert.Contains(t, lines, "Subtotal: Rs. 10")
	assert.Contains(t, lines, "Delivery: Rs. 1")
	assert.Contains(t, lines, "Total: Rs. 11")
}

func TestGenerate_WritesFileAndBuildsURLs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "order-pdfs")
	g := NewGenerator(dir, "http://localhost:3000")
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }

	doc, err := g.Generate(sampleSlip())
	require.NoError(t, err)

	assert.Equal(t, "/order-pdfs/order-42-1700000000000.pdf", doc.RelativePath)
	assert.Equal(t, "http://localhost:3000/order-pdfs/order-42-1700000000000.pdf", doc.AbsoluteURL)

	data, err := os.ReadFile(filepath.Join(dir, "order-42-1700000000000.pdf"))
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF-1.4\n", string(data[:9]))
	assert.Contains(t, string(data), "(Order ID: 42) Tj")
}

func TestGenerate_DirCreationFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	g := NewGenerator(filepath.Join(blocker, "order-pdfs"), "http://localhost:3000")
	doc, err := g.Generate(sampleSlip())

	assert.Nil(t, doc)
	assert.ErrorContains(t, err, "create order pdf dir")
}
