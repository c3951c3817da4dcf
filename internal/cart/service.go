package cart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/luacheia/storefront/internal/api"
	"github.com/luacheia/storefront/internal/identity"
	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/models"
)

var (
	ErrMissingCartID = errors.New("cart id missing")
	ErrQtyOutOfRange = errors.New("quantity out of range")
)

// Service 购物车服务。购物车内容与金额完全由服务端持有，
// 这里的每次写操作之后调用方都必须整体重新拉取（见 Refresh）
type Service struct {
	client *api.Client
}

// NewService 创建购物车服务
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// View 一次完整拉取的购物车快照
type View struct {
	Items  []models.CartItem
	Totals models.CartTotals
}

// UpsertInput 添加/修改购物车行输入
type UpsertInput struct {
	ProductID    uint
	Qty          int
	Price        models.Money
	Color        string
	Size         string
	MaxCartLimit int // 商品允许的单行上限，0 表示服务端未给出
}

// List 拉取购物车行。访客路径省略末尾的用户段
func (s *Service) List(ctx context.Context, cartID string, id identity.Identity) ([]models.CartItem, error) {
	if cartID == "" {
		return nil, ErrMissingCartID
	}
	var items []models.CartItem
	if err := s.client.GetJSON(ctx, keyedPath("cart-list", cartID, id), &items); err != nil {
		return nil, fmt.Errorf("list cart failed: %w", err)
	}
	return items, nil
}

// Totals 拉取服务端计算的购物车汇总
func (s *Service) Totals(ctx context.Context, cartID string, id identity.Identity) (models.CartTotals, error) {
	if cartID == "" {
		return models.CartTotals{}, ErrMissingCartID
	}
	var totals models.CartTotals
	if err := s.client.GetJSON(ctx, keyedPath("cart-detail", cartID, id), &totals); err != nil {
		return models.CartTotals{}, fmt.Errorf("fetch cart totals failed: %w", err)
	}
	return totals, nil
}

// Refresh 拉取行与汇总。每次写操作成功后必须调用，
// 客户端不在本地做增量合并，避免与服务端金额产生漂移
func (s *Service) Refresh(ctx context.Context, cartID string, id identity.Identity) (View, error) {
	items, err := s.List(ctx, cartID, id)
	if err != nil {
		return View{}, err
	}
	totals, err := s.Totals(ctx, cartID, id)
	if err != nil {
		return View{}, err
	}
	return View{Items: items, Totals: totals}, nil
}

// Upsert 添加或修改购物车行。提交前本地校验数量区间 (0, max]，
// 越界直接拒绝且不发任何请求；current 中已有相同 (商品, 颜色, 尺码)
// 行时提交其 item_id，让服务端原地改数量而不是插重复行
func (s *Service) Upsert(ctx context.Context, cartID string, id identity.Identity, current []models.CartItem, input UpsertInput) error {
	if cartID == "" {
		return ErrMissingCartID
	}
	if input.Qty <= 0 {
		return fmt.Errorf("%w: qty %d", ErrQtyOutOfRange, input.Qty)
	}
	if input.MaxCartLimit > 0 && input.Qty > input.MaxCartLimit {
		return fmt.Errorf("%w: qty %d over limit %d", ErrQtyOutOfRange, input.Qty, input.MaxCartLimit)
	}

	fields := map[string]string{
		"product_id": strconv.FormatUint(uint64(input.ProductID), 10),
		"user_id":    id.FormUserID(),
		"qty":        strconv.Itoa(input.Qty),
		"price":      input.Price.String(),
		"color":      input.Color,
		"size":       input.Size,
		"cart_id":    cartID,
	}
	if existing := findLine(current, input.ProductID, input.Color, input.Size); existing != nil {
		fields["item_id"] = strconv.FormatUint(uint64(existing.ID), 10)
	}

	if err := s.client.PostForm(ctx, "cart-view/", fields, nil); err != nil {
		return fmt.Errorf("update cart failed: %w", err)
	}
	logger.Debugw("cart_upserted",
		"cart_id", cartID,
		"product_id", input.ProductID,
		"qty", input.Qty,
	)
	return nil
}

// Delete 删除购物车行
func (s *Service) Delete(ctx context.Context, cartID string, itemID uint, id identity.Identity) error {
	if cartID == "" {
		return ErrMissingCartID
	}
	path := fmt.Sprintf("cart-delete/%s/%d/", url.PathEscape(cartID), itemID)
	if !id.Guest {
		path += id.FormUserID() + "/"
	}
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete cart item failed: %w", err)
	}
	return nil
}

func keyedPath(prefix, cartID string, id identity.Identity) string {
	path := prefix + "/" + url.PathEscape(cartID) + "/"
	if !id.Guest {
		path += id.FormUserID() + "/"
	}
	return path
}

func findLine(items []models.CartItem, productID uint, color, size string) *models.CartItem {
	for i := range items {
		if items[i].SameLine(productID, color, size) {
			return &items[i]
		}
	}
	return nil
}
