package pdfslip

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sanikapatil01/chakali-store/internal/pricing"
)

// Item is one order line as it appears on the slip.
type Item struct {
	Name            string
	BrandName       string
	Quantity        int
	DiscountPercent float64
	UnitPrice       float64
	MRP             float64
	OfferText       string
	Weight          string
	ItemsPerPack    int
	RegionOfOrigin  string
	NetQuantity     string
}

// Slip holds everything the order document shows.
type Slip struct {
	OrderID         int64
	PaymentMethod   string
	Source          string
	CustomerName    string
	MobileNumber    string
	Address         string
	LiveLocationURL string
	Items           []Item
	Subtotal        float64
	DeliveryCharge  float64
	Total           float64
}

// Document references the generated file both relative to the public
// directory and as a fully-qualified URL.
type Document struct {
	RelativePath string
	AbsoluteURL  string
}

type Generator struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewGenerator(dir, baseURL string) *Generator {
	return &Generator{dir: dir, baseURL: baseURL, now: time.Now}
}

func rs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func paymentLabel(method string) string {
	if method == "cod" {
		return "Cash on Delivery"
	}
	return "Online"
}

func (s *Slip) lines() []string {
	lines := []string{
		"New product order via WhatsApp",
		fmt.Sprintf("Order ID: %d", s.OrderID),
		"Source: " + s.Source,
		"Payment: " + paymentLabel(s.PaymentMethod),
		"",
	}

	for i, item := range s.Items {
		lines = append(lines,
			fmt.Sprintf("Item %d", i+1),
			"Item Name: "+item.Name,
			"Brand Name: "+item.BrandName,
			fmt.Sprintf("Discount: %s%%", rs(item.DiscountPercent)),
			"Price: Rs. "+rs(item.UnitPrice),
			"MRP: Rs. "+rs(item.MRP),
			"Offer: "+item.OfferText,
			"Weight: "+item.Weight,
			fmt.Sprintf("Number of Items: %d", item.ItemsPerPack),
			"Region of Origin: "+item.RegionOfOrigin,
			"Net Quantity: "+item.NetQuantity,
			fmt.Sprintf("Quantity Ordered: %d", item.Quantity),
			"",
		)
	}

	liveLocation := s.LiveLocationURL
	if liveLocation == "" {
		liveLocation = "Not provided"
	}

	lines = append(lines,
		"Customer Name: "+s.CustomerName,
		"Mobile Number: "+s.MobileNumber,
		"Address: "+s.Address,
		"Live Location: "+liveLocation,
		"Subtotal: Rs. "+rs(pricing.Round(s.Subtotal)),
		"Delivery: Rs. "+rs(pricing.Round(s.DeliveryCharge)),
		"Total: Rs. "+rs(pricing.Round(s.Total)),
	)
	return lines
}

// Generate renders the slip and writes it under the public document
// directory, creating the directory lazily. The file name mixes the
// order id with the generation timestamp so regenerating never
// collides with an earlier document.
func (g *Generator) Generate(s *Slip) (*Document, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create order pdf dir: %w", err)
	}

	pdf := renderPage(s.lines(), s.LiveLocationURL)
	fileName := fmt.Sprintf("order-%d-%d.pdf", s.OrderID, g.now().UnixMilli())

	if err := os.WriteFile(filepath.Join(g.dir, fileName), pdf, 0o644); err != nil {
		return nil, fmt.Errorf("write order pdf: %w", err)
	}

	return &Document{
		RelativePath: "/order-pdfs/" + fileName,
		AbsoluteURL:  g.baseURL + "/order-pdfs/" + fileName,
	}, nil
}
