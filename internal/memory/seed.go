package memory

import (
	"time"

	"github.com/meninadelaco/storefront/internal/catalog"
)

// seed loads the demo data set: the same records the hosted backend is
// provisioned with, so the storefront behaves identically in both
// modes.
func (s *Store) seed() {
	now := s.now().UTC()

	s.categories = []catalog.Category{
		{ID: "cat-premium", Name: "Premium", Slug: "premium", Description: "Linha premium", DisplayOrder: 1, Active: true, CreatedAt: now},
		{ID: "cat-luxo", Name: "Luxo", Slug: "luxo", Description: "Coleção luxo", DisplayOrder: 2, Active: true, CreatedAt: now},
		{ID: "cat-kits", Name: "Kits", Slug: "kits", Description: "Kits para a semana toda", DisplayOrder: 3, Active: true, CreatedAt: now},
		{ID: "cat-personalizados", Name: "Personalizados", Slug: "personalizados", Description: "Laços personalizados", DisplayOrder: 4, Active: true, CreatedAt: now},
	}

	s.products = []catalog.Product{
		{
			ID: "prod-laco-rosa", SKU: "LACO-001",
			Name:             "Laço de Seda Premium Rosa",
			Description:      "Laço premium em seda natural com detalhes em renda. Perfeito para ocasiões especiais.",
			ShortDescription: "Laço premium em seda natural",
			PriceCents:       2990, OriginalPriceCents: 3990,
			CategoryID: "cat-premium",
			Images:     []catalog.ProductImage{{URL: "/images/products/laco-rosa.jpg", Primary: true}},
			Attributes: []catalog.ProductAttribute{
				{Type: "color", Value: "Rosa"},
				{Type: "size", Value: "M"},
				{Type: "material", Value: "Seda natural"},
			},
			StockQuantity: 15, LowStockThreshold: 5,
			Featured: true, InStock: true,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "prod-laco-perolas", SKU: "LACO-002",
			Name:             "Laço com Pérolas Branco",
			Description:      "Elegante laço branco adornado com pérolas naturais. Sofisticação para sua princesa.",
			ShortDescription: "Laço com pérolas naturais",
			PriceCents:       3490,
			CategoryID:       "cat-luxo",
			Images:           []catalog.ProductImage{{URL: "/images/products/laco-perolas.jpg", Primary: true}},
			Attributes: []catalog.ProductAttribute{
				{Type: "color", Value: "Branco"},
				{Type: "size", Value: "M"},
			},
			StockQuantity: 8, LowStockThreshold: 3,
			Featured: true, InStock: true,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "prod-kit-arco-iris", SKU: "KIT-001",
			Name:             "Kit Laços Coloridos Arco-Íris",
			Description:      "Kit com 5 laços coloridos para combinar com todas as roupas da semana.",
			ShortDescription: "Kit com 5 laços coloridos",
			PriceCents:       4990, OriginalPriceCents: 6990,
			CategoryID: "cat-kits",
			Images:     []catalog.ProductImage{{URL: "/images/products/kit-arco-iris.jpg", Primary: true}},
			Attributes: []catalog.ProductAttribute{
				{Type: "color", Value: "Multicolor"},
			},
			StockQuantity: 12, LowStockThreshold: 4,
			Featured: true, InStock: true,
			CreatedAt: now, UpdatedAt: now,
		},
	}

	s.slides = []catalog.Slide{
		{
			ID: "slide-colecao", Title: "Laços Encantadores",
			Subtitle: "Coleção exclusiva para sua princesa",
			ImageURL: "/images/banner1.jpg",
			ButtonText: "Comprar Agora", ButtonLink: "/produtos",
			DisplayOrder: 1, Active: true, CreatedAt: now,
		},
		{
			ID: "slide-ofertas", Title: "Até 30% OFF",
			Subtitle: "Promoções especiais por tempo limitado",
			ImageURL: "/images/banner2.jpg",
			ButtonText: "Ver Ofertas", ButtonLink: "/produtos?categoria=ofertas",
			DisplayOrder: 2, Active: true, CreatedAt: now,
		},
	}

	s.orders = []catalog.Order{
		{
			ID: "order-1", OrderNumber: "PED-001",
			CustomerName: "Maria Silva", CustomerEmail: "maria@email.com",
			Status: catalog.StatusPending, TotalCents: 8990,
			Items: []catalog.OrderItem{
				{ProductID: "prod-laco-rosa", ProductName: "Laço de Seda Premium Rosa", Quantity: 2, TotalCents: 5980},
				{ProductID: "prod-kit-arco-iris", ProductName: "Kit Laços Coloridos", Quantity: 1, TotalCents: 3010},
			},
			CreatedAt: now,
		},
		{
			ID: "order-2", OrderNumber: "PED-002",
			CustomerName: "Ana Santos", CustomerEmail: "ana@email.com",
			Status: catalog.StatusDelivered, TotalCents: 14990,
			Items: []catalog.OrderItem{
				{ProductName: "Laço Luxo Dourado", Quantity: 1, TotalCents: 14990},
			},
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}
