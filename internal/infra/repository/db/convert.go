package db

import (
	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

func productToDomain(p *model.Product) *domain.Product {
	variants := make([]domain.Variant, len(p.Variants))
	for i := range p.Variants {
		variants[i] = *variantToDomain(&p.Variants[i])
	}
	return &domain.Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Variants:    variants,
	}
}

func productFromDomain(p *domain.Product) *model.Product {
	variants := make([]model.Variant, len(p.Variants))
	for i := range p.Variants {
		variants[i] = *variantFromDomain(&p.Variants[i])
		variants[i].ProductID = p.ProductID
	}
	return &model.Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Variants:    variants,
	}
}

func variantToDomain(v *model.Variant) *domain.Variant {
	return &domain.Variant{
		VariantID: v.VariantID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Color:     v.Color,
		Capacity:  v.Capacity,
		Price:     v.Price,
		Stock:     v.Stock,
		ImageURL:  v.ImageURL,
	}
}

func variantFromDomain(v *domain.Variant) *model.Variant {
	return &model.Variant{
		VariantID: v.VariantID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Color:     v.Color,
		Capacity:  v.Capacity,
		Price:     v.Price,
		Stock:     v.Stock,
		ImageURL:  v.ImageURL,
	}
}

func orderToDomain(o *model.Order) *domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = domain.OrderLine{
			LineID:      line.LineID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			VariantName: line.VariantName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
	}
	notes := make([]domain.StaffNote, len(o.Notes))
	for i, note := range o.Notes {
		notes[i] = domain.StaffNote{
			NoteID:     note.NoteID,
			Content:    note.Content,
			AuthorName: note.AuthorName,
			CreatedAt:  note.CreatedAt,
		}
	}
	return &domain.Order{
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		Lines:           lines,
		Amount:          o.Amount,
		Status:          domain.OrderStatus(o.Status),
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Notes:           notes,
	}
}

func orderFromDomain(o *domain.Order) *model.Order {
	lines := make([]model.OrderLine, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = model.OrderLine{
			LineID:      line.LineID,
			OrderID:     o.OrderID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			VariantName: line.VariantName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
	}
	notes := make([]model.StaffNote, len(o.Notes))
	for i, note := range o.Notes {
		notes[i] = *noteFromDomain(o.OrderID, &note)
	}
	return &model.Order{
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		Lines:           lines,
		Amount:          o.Amount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Notes:           notes,
	}
}

func noteFromDomain(orderID string, note *domain.StaffNote) *model.StaffNote {
	return &model.StaffNote{
		NoteID:     note.NoteID,
		OrderID:    orderID,
		Content:    note.Content,
		AuthorName: note.AuthorName,
		CreatedAt:  note.CreatedAt,
	}
}
