package models

// CartItem 购物车行。行身份由 (商品, 颜色, 尺码) 组合决定，金额字段均为服务端计算值
type CartItem struct {
	ID      uint    `json:"id"`
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
	Color   string  `json:"color"`
	Size    string  `json:"size"`
	Price   Money   `json:"price"`
	Total   Money   `json:"total"`
}

// SameLine 判断 (商品, 颜色, 尺码) 是否与该行一致
func (c CartItem) SameLine(productID uint, color, size string) bool {
	return c.Product.ID == productID && c.Color == color && c.Size == size
}

// CartTotals 购物车汇总。只读镜像，客户端从不自行累加
type CartTotals struct {
	SubTotal Money `json:"sub_total"`
	Shipping Money `json:"shipping"`
	Tax      Money `json:"tax"`
	Total    Money `json:"total"`
}
