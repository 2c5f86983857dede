package display

// The legacy static catalog, kept in its original shape (string prices,
// flat category slugs, explicit discount). It is only reachable through
// Normalize, so its quirks never leak past this package.
var legacyCatalog = []map[string]any{
	{
		"id":            1,
		"name":          "Laço de Seda Premium Rosa",
		"price":         "R$ 29,90",
		"originalPrice": "R$ 39,90",
		"category":      "premium",
		"image":         "/images/products/laco-rosa-premium.jpg",
		"description":   "Laço premium em seda natural com detalhes em renda. Perfeito para ocasiões especiais.",
		"features":      []any{"Seda 100% natural", "Fecho de velcro", "Lavável", "Não desbota"},
		"inStock":       true,
		"featured":      true,
		"discount":      25,
	},
	{
		"id":          2,
		"name":        "Laço com Pérolas Branco",
		"price":       "R$ 34,90",
		"category":    "luxo",
		"image":       "/images/products/laco-perolas-branco.jpg",
		"description": "Elegante laço branco adornado com pérolas naturais. Sofisticação para sua princesa.",
		"features":    []any{"Pérolas naturais", "Tecido premium", "Fecho seguro", "Embalagem presenteável"},
		"inStock":     true,
		"featured":    true,
	},
	{
		"id":            3,
		"name":          "Kit Laços Coloridos Arco-Íris",
		"price":         "R$ 49,90",
		"originalPrice": "R$ 69,90",
		"category":      "kits",
		"image":         "/images/products/kit-arco-iris.jpg",
		"description":   "Kit com 5 laços coloridos para combinar com todas as roupas da semana.",
		"features":      []any{"5 laços diferentes", "Cores vibrantes", "Material resistente", "Perfeito para dia a dia"},
		"inStock":       true,
		"featured":      true,
		"discount":      28,
	},
	{
		"id":          4,
		"name":        "Laço Baby Azul Celeste",
		"price":       "R$ 22,90",
		"category":    "baby",
		"image":       "/images/products/laco-baby-azul.jpg",
		"description": "Laço delicado especialmente desenvolvido para bebês. Conforto e beleza.",
		"features":    []any{"Material hipoalergênico", "Fecho extra macio", "Peso leve", "Seguro para bebês"},
		"inStock":     true,
		"featured":    false,
	},
	{
		"id":          5,
		"name":        "Laço Luxo Dourado",
		"price":       "R$ 39,90",
		"category":    "luxo",
		"image":       "/images/products/laco-luxo-dourado.jpg",
		"description": "Laço dourado sofisticado para ocasiões muito especiais. Brilho e elegância.",
		"features":    []any{"Tecido dourado", "Acabamento refinado", "Edição limitada"},
		"inStock":     true,
		"featured":    true,
	},
	{
		"id":          6,
		"name":        "Laço Personalizado com Nome",
		"price":       "R$ 44,90",
		"category":    "personalizados",
		"image":       "/images/products/laco-personalizado.jpg",
		"description": "Laço personalizado com o nome bordado. Exclusividade para sua filha.",
		"features":    []any{"Nome bordado", "Escolha de cores", "Feito à mão"},
		"inStock":     true,
		"featured":    false,
	},
}

// StaticProducts returns the legacy catalog already normalized.
func StaticProducts() []Product {
	out := make([]Product, 0, len(legacyCatalog))
	for _, raw := range legacyCatalog {
		out = append(out, Normalize(raw))
	}
	return out
}
