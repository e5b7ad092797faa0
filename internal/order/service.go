package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/logger"
	"github.com/sanikapatil01/chakali-store/internal/pdfslip"
	"github.com/sanikapatil01/chakali-store/internal/pricing"
	"github.com/sanikapatil01/chakali-store/internal/store"
	"github.com/sanikapatil01/chakali-store/internal/whatsapp"
)

// Resolver prices one submitted cart line against the catalog.
type Resolver interface {
	Resolve(ctx context.Context, productID int64, weightOption string, quantity int) (*pricing.ResolvedLine, error)
}

// SettingsSource yields the delivery configuration at order time.
type SettingsSource interface {
	Get(ctx context.Context) (*store.Settings, error)
}

// SlipGenerator renders the order document.
type SlipGenerator interface {
	Generate(s *pdfslip.Slip) (*pdfslip.Document, error)
}

// Notifier delivers the admin notification.
type Notifier interface {
	Notify(ctx context.Context, msg whatsapp.Message) whatsapp.Outcome
}

type Service interface {
	Place(ctx context.Context, p *Placement) (int64, whatsapp.Outcome, error)
	Get(ctx context.Context, id int64) (*Order, error)
	Track(ctx context.Context, id int64) (*Order, []TrackedItem, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Recent(ctx context.Context, limit int) ([]Order, error)
	Today(ctx context.Context, limit int) ([]Order, error)
}

type service struct {
	repo     Repository
	resolver Resolver
	settings SettingsSource
	slips    SlipGenerator
	notifier Notifier
}

func NewService(repo Repository, resolver Resolver, settings SettingsSource,
	slips SlipGenerator, notifier Notifier) Service {
	return &service{
		repo:     repo,
		resolver: resolver,
		settings: settings,
		slips:    slips,
		notifier: notifier,
	}
}

func rs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Place runs the finalization pipeline: resolve and freeze prices,
// total the cart, record the order, render the slip, adjust stock and
// notify the admin. Slip generation and notification are best effort,
// persistence failures abort.
func (s *service) Place(ctx context.Context, p *Placement) (int64, whatsapp.Outcome, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "order"),
		zap.String("method", "Place"))

	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Error("failed to load store settings", zap.Error(err))
		return 0, whatsapp.Outcome{}, err
	}

	resolved := make([]pricing.ResolvedLine, 0, len(p.Items))
	for _, item := range p.Items {
		line, err := s.resolver.Resolve(ctx, item.ProductID, item.WeightOption, item.Quantity)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				log.Warn("dropping unknown product from order",
					zap.Int64("productID", item.ProductID))
				continue
			}
			return 0, whatsapp.Outcome{}, err
		}
		resolved = append(resolved, *line)
	}
	if len(resolved) == 0 {
		return 0, whatsapp.Outcome{}, ErrNoValidItems
	}

	priced := make([]pricing.Line, 0, len(resolved))
	for _, line := range resolved {
		priced = append(priced, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	totals := pricing.Calculate(priced, settings)

	o := &Order{
		CustomerName:  p.CustomerName,
		Phone:         p.Phone,
		Address:       p.Address,
		Total:         totals.Total,
		PaymentStatus: PaymentStatusFor(p.PaymentMethod),
		OrderStatus:   StatusReceived,
		PaymentMethod: p.PaymentMethod,
		OrderSource:   p.OrderSource,
		LiveLatitude:  p.LiveLatitude,
		LiveLongitude: p.LiveLongitude,
	}
	if url := strings.TrimSpace(p.LiveLocationURL); url != "" {
		o.LiveLocationURL = &url
	}

	orderID, err := s.repo.InsertOrder(ctx, o)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return 0, whatsapp.Outcome{}, err
	}

	pdfURL := ""
	doc, err := s.slips.Generate(s.buildSlip(orderID, p, resolved, totals))
	if err != nil {
		log.Error("order pdf generation failed",
			zap.Int64("orderID", orderID), zap.Error(err))
	} else {
		pdfURL = doc.AbsoluteURL
		if err := s.repo.SetPDFURL(ctx, orderID, doc.AbsoluteURL); err != nil {
			log.Error("failed to store order pdf url",
				zap.Int64("orderID", orderID), zap.Error(err))
		}
	}

	for _, line := range resolved {
		if err := s.repo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return 0, whatsapp.Outcome{}, err
		}
		productID := line.ProductID
		item := &Item{
			OrderID:      orderID,
			ProductID:    &productID,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			WeightOption: line.WeightLabel,
		}
		if err := s.repo.InsertItem(ctx, item); err != nil {
			return 0, whatsapp.Outcome{}, err
		}
	}

	text := composeNotification(p, resolved, totals)
	pdfNote := "Not generated"
	if pdfURL != "" {
		pdfNote = pdfURL
	}
	outcome := s.notifier.Notify(ctx, whatsapp.Message{
		Text:            fmt.Sprintf("%s\nOrder ID: %d\nOrder PDF: %s", text, orderID, pdfNote),
		DocumentURL:     pdfURL,
		DocumentName:    fmt.Sprintf("order-%d.pdf", orderID),
		DocumentCaption: fmt.Sprintf("Order %d PDF attached", orderID),
	})

	log.Info("order placed",
		zap.Int64("orderID", orderID),
		zap.Float64("total", totals.Total),
		zap.Bool("notified", outcome.OK))
	return orderID, outcome, nil
}

func (s *service) buildSlip(orderID int64, p *Placement, resolved []pricing.ResolvedLine, totals pricing.Totals) *pdfslip.Slip {
	items := make([]pdfslip.Item, 0, len(resolved))
	for _, line := range resolved {
		items = append(items, pdfslip.Item{
			Name:            line.Name,
			BrandName:       line.BrandName,
			Quantity:        line.Quantity,
			DiscountPercent: line.DiscountPercent,
			UnitPrice:       line.UnitPrice,
			MRP:             pricing.Round(line.MRP),
			OfferText:       line.OfferText,
			Weight:          line.WeightLabel,
			ItemsPerPack:    line.ItemsPerPack,
			RegionOfOrigin:  line.RegionOfOrigin,
			NetQuantity:     line.NetQuantity,
		})
	}
	return &pdfslip.Slip{
		OrderID:         orderID,
		PaymentMethod:   p.PaymentMethod,
		Source:          p.OrderSource,
		CustomerName:    p.CustomerName,
		MobileNumber:    p.Phone,
		Address:         p.Address,
		LiveLocationURL: strings.TrimSpace(p.LiveLocationURL),
		Items:           items,
		Subtotal:        totals.Subtotal,
		DeliveryCharge:  totals.DeliveryCharge,
		Total:           totals.Total,
	}
}

func composeNotification(p *Placement, resolved []pricing.ResolvedLine, totals pricing.Totals) string {
	itemLines := make([]string, 0, len(resolved))
	for i, line := range resolved {
		itemLines = append(itemLines,
			fmt.Sprintf("%d. Item Name: %s\n", i+1, line.Name)+
				fmt.Sprintf("   Brand Name: %s\n", line.BrandName)+
				fmt.Sprintf("   Discount: %s%%\n", rs(line.DiscountPercent))+
				fmt.Sprintf("   Price: Rs. %s\n", rs(line.UnitPrice))+
				fmt.Sprintf("   MRP: Rs. %s\n", rs(pricing.Round(line.MRP)))+
				fmt.Sprintf("   Offer: %s\n", line.OfferText)+
				fmt.Sprintf("   Weight: %s\n", line.WeightLabel)+
				fmt.Sprintf("   Number of Items: %d\n", line.ItemsPerPack)+
				fmt.Sprintf("   Region of Origin: %s\n", line.RegionOfOrigin)+
				fmt.Sprintf("   Net Quantity: %s\n", line.NetQuantity)+
				fmt.Sprintf("   Quantity Ordered: %d", line.Quantity))
	}

	payment := "Online"
	if p.PaymentMethod == "cod" {
		payment = "Cash on Delivery"
	}
	liveLocation := strings.TrimSpace(p.LiveLocationURL)
	if liveLocation == "" {
		liveLocation = "Not provided"
	}

	return "New order received\n" +
		"Source: " + p.OrderSource + "\n" +
		"Payment: " + payment + "\n" +
		"Customer Name: " + p.CustomerName + "\n" +
		"Mobile Number: " + p.Phone + "\n" +
		"Address: " + p.Address + "\n" +
		"Live Location: " + liveLocation + "\n" +
		"Items:\n" + strings.Join(itemLines, "\n") + "\n" +
		"Subtotal: Rs. " + rs(totals.Subtotal) + "\n" +
		"Delivery: Rs. " + rs(totals.DeliveryCharge) + "\n" +
		"Total: Rs. " + rs(totals.Total)
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Track(ctx context.Context, id int64) (*Order, []TrackedItem, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.ItemsByOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// UpdateStatus normalizes the submitted status before persisting, an
// unrecognized value falls back to the initial state.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.repo.UpdateStatus(ctx, id, NormalizeStatus(status))
}

func (s *service) Recent(ctx context.Context, limit int) ([]Order, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *service) Today(ctx context.Context, limit int) ([]Order, error) {
	return s.repo.Today(ctx, limit)
}
