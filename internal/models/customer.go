package models

import "time"

// WishlistEntry 心愿单条目
type WishlistEntry struct {
	ID      uint    `json:"id"`
	Product Product `json:"product"`
}

// OrderItem 订单行
type OrderItem struct {
	ID      uint    `json:"id"`
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
	Color   string  `json:"color,omitempty"`
	Size    string  `json:"size,omitempty"`
	Price   Money   `json:"price"`
	Total   Money   `json:"total"`
}

// Order 历史订单，只读
type Order struct {
	OID         uint        `json:"oid"`
	OrderStatus string      `json:"order_status"`
	Total       Money       `json:"total"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"orderitem"`
}

// Notification 用户通知
type Notification struct {
	ID      uint      `json:"id"`
	Message string    `json:"message,omitempty"`
	Date    time.Time `json:"date"`
	Seen    bool      `json:"seen"`
}

// ProfileUser 档案内嵌的账号字段
type ProfileUser struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Profile 用户档案
type Profile struct {
	FullName string      `json:"full_name"`
	Image    string      `json:"image"`
	User     ProfileUser `json:"user"`
}

// TokenPair 登录返回的访问/刷新令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
