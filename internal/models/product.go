package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProductColor 商品颜色选项
type ProductColor struct {
	Name      string         `json:"name"`
	ColorCode string         `json:"color_code"`
	Galleries []GalleryImage `json:"galleries,omitempty"`
}

// ProductSize 商品尺码选项
type ProductSize struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// GalleryImage 商品图集图片
type GalleryImage struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// Product 商品。完整形态出现在商品详情，购物车/心愿单里只携带摘要字段
type Product struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Image        string         `json:"image"`
	Description  string         `json:"description,omitempty"`
	Price        Money          `json:"price"`
	OldPrice     Money          `json:"old_price"`
	StockQty     int            `json:"stock_qty"`
	MaxCartLimit int            `json:"max_cart_limit"`
	Colors       []ProductColor `json:"color,omitempty"`
	Sizes        []ProductSize  `json:"size,omitempty"`
	Gallery      []GalleryImage `json:"gallery,omitempty"`
}

// DiscountPercent 按原价与现价推导折扣百分比，无原价时为 0
func (p Product) DiscountPercent() int {
	if p.OldPrice.IsZero() || p.Price.IsZero() {
		return 0
	}
	if p.OldPrice.LessThanOrEqual(p.Price.Decimal) {
		return 0
	}
	diff := p.OldPrice.Sub(p.Price.Decimal)
	percent := diff.Div(p.OldPrice.Decimal).Mul(hundred)
	return int(percent.Round(0).IntPart())
}

// Category 商品分类
type Category struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// Banner 首页轮播图
type Banner struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}
